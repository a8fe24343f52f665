// Package reg implements the registration facade layered above the
// resource directory: a single application layer (a set of callbacks
// plus an opaque cookie) can attach itself to the process-wide device
// context, and representor ports expose a guarded port-ID setter that
// keeps system-reserved identifier bits out of the application's reach.
//
// At most one application layer may be registered at a time, and
// registration requires that at least one device has been attached to
// the context first. These operations are deliberately simple glue; the
// interesting locking machinery lives in the resource package.
package reg
