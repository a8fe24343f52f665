package serializer

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/netfabrik/resdir/rpc/common"
)

// NewCBORSerializer creates a new serializer using CBOR encoding
func NewCBORSerializer() IRPCSerializer {
	return &cborSerializerImpl{}
}

// cborSerializerImpl implements the IRPCSerializer interface using CBOR encoding
type cborSerializerImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (c cborSerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	return cbor.Marshal(msg)
}

func (c cborSerializerImpl) Deserialize(b []byte, msg *common.Message) error {
	return cbor.Unmarshal(b, msg)
}
