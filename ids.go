package lltrace

// Identifier types are strongly-typed, monotonically allocated indices
// into per-namespace interning tables. Each namespace is dense and
// starts at 0, mirroring how internal/source.StringID and
// internal/types.TypeID allocate slots in the teacher compiler.

// PathID indexes the path table. Declared once by a Path event and
// never rewritten.
type PathID uint32

// FunctionID indexes the function table. FunctionID(0) is the reserved
// TopLevelFunctionID, the synthetic frame every trace opens with.
type FunctionID uint32

// TopLevelFunctionID is the synthetic frame active before any user call.
const TopLevelFunctionID FunctionID = 0

// VariableID indexes the variable-name table, interned by string
// equality.
type VariableID uint32

// TypeID indexes the type table. TypeID(0) is the reserved NoneTypeID.
type TypeID uint32

// NoneTypeID is the type of NoneValue. New declares it with the None
// Type event of its opening sequence; Validate also accepts references
// to it with no preceding Type event.
const NoneTypeID TypeID = 0

// StepID is an ordinal position within the emitted stream, counting
// every event. RegisterSpecialEvent returns the position of the Event
// entry it appends, for back-reference.
type StepID uint64

// Place is an opaque handle into the instrumentation frontend's mutable
// storage locations. lltrace never interprets it beyond checking
// equality; the frontend is responsible for uniqueness within a trace.
type Place int64
