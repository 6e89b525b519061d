package morphlex

import "errors"

// Sentinel errors morphlex callers classify with errors.Is.

// ErrParse is returned when the markup parser produces no usable root, or
// more than one where exactly one is required.
var ErrParse = errors.New("morphlex: parse error")

// ErrInvalidInnerMorph is returned by MorphInner when its two arguments are
// not a matching element pair, or the reference string parses to anything
// other than a single element.
var ErrInvalidInnerMorph = errors.New("morphlex: invalid inner morph")

// ErrHostPrimitive classifies a failure surfaced from the underlying tree
// primitive (insert/move/remove/clone) rather than from the engine's own
// matching or parsing logic. pkg/morphnode's implementations of those
// primitives are total slice operations that never fail or panic — removing
// an already-detached node is a no-op, and inserting before an anchor that is
// no longer present appends the node instead of failing — so no engine code
// path currently wraps this sentinel. It is declared for callers supplying
// a host tree implementation whose primitives can fail (for example one
// backed by a remote DOM or a validating data structure) and for
// errors.Is-based switches over the full three-kind taxonomy to compile
// against a stable set.
var ErrHostPrimitive = errors.New("morphlex: host primitive error")
