package lltrace

import (
	"fmt"
	"strings"

	"fortio.org/safecast"
)

// sink is the single seam between the interning core and an output
// strategy. BufferedWriter's sink appends to an in-memory slice;
// StreamingWriter's sink encodes each event immediately into the
// container's pending block, which Flush or Close seals. Keeping this
// the only difference between the two writers is what prevents their
// declaration ordering from ever diverging, per the base spec's §9
// design note.
type sink interface {
	addEvent(LowLevelEvent)
}

// functionKey is a Function's identity: the (name, path, line) triple.
type functionKey struct {
	name   string
	pathID PathID
	line   int64
}

// typeKey is a Type's identity on the fast interning path.
type typeKey struct {
	kind     TypeKind
	langType string
}

// core holds the four interning tables (paths, functions, variables,
// types) shared by both writer implementations, adapted from
// internal/source.Interner's single byID/index table into one table
// per namespace, each with its own identity rule per §4.1.
type core struct {
	sink sink

	paths     []string
	pathIndex map[string]PathID

	functions     []FunctionRecord
	functionIndex map[functionKey]FunctionID

	variables     []string
	variableIndex map[string]VariableID

	types        []TypeRecord
	typeIndex    map[typeKey]TypeID
	rawTypeIndex map[string]TypeID

	eventCount uint64
}

func newCore(s sink) *core {
	return &core{
		sink:          s,
		pathIndex:     make(map[string]PathID),
		functionIndex: make(map[functionKey]FunctionID),
		variableIndex: make(map[string]VariableID),
		typeIndex:     make(map[typeKey]TypeID),
		rawTypeIndex:  make(map[string]TypeID),
	}
}

// emit hands e to the sink and returns the ordinal position e occupies
// in the stream, i.e. the number of events emitted before it.
func (c *core) emit(e LowLevelEvent) StepID {
	pos := StepID(c.eventCount)
	c.sink.addEvent(e)
	c.eventCount++
	return pos
}

// nextSlot converts a table length to the dense uint32 id one past its
// current end, the same safecast.Conv guard internal/types.Interner
// uses before minting a new id: on a real 32-bit overflow this panics
// rather than silently wrapping around and colliding with id 0.
func nextSlot(tableLen int) uint32 {
	slot, err := safecast.Conv[uint32](tableLen)
	if err != nil {
		panic(fmt.Errorf("lltrace: interning table overflow: %w", err))
	}
	return slot
}

func (c *core) ensurePathID(path string) PathID {
	if id, ok := c.pathIndex[path]; ok {
		return id
	}
	id := PathID(nextSlot(len(c.paths)))
	c.paths = append(c.paths, path)
	c.pathIndex[path] = id
	c.emit(newPathEvent(path))
	return id
}

func (c *core) ensureFunctionID(name, path string, line int64) FunctionID {
	pathID := c.ensurePathID(path)
	key := functionKey{name: name, pathID: pathID, line: line}
	if id, ok := c.functionIndex[key]; ok {
		return id
	}
	id := FunctionID(nextSlot(len(c.functions)))
	rec := FunctionRecord{PathID: pathID, Line: line, Name: name}
	c.functions = append(c.functions, rec)
	c.functionIndex[key] = id
	c.emit(newFunctionEvent(rec))
	return id
}

func (c *core) ensureVariableID(name string) VariableID {
	if id, ok := c.variableIndex[name]; ok {
		return id
	}
	id := VariableID(nextSlot(len(c.variables)))
	c.variables = append(c.variables, name)
	c.variableIndex[name] = id
	c.emit(newVariableNameEvent(name))
	return id
}

func (c *core) ensureTypeID(kind TypeKind, langType string) TypeID {
	key := typeKey{kind: kind, langType: langType}
	if id, ok := c.typeIndex[key]; ok {
		return id
	}
	id := TypeID(nextSlot(len(c.types)))
	rec := TypeRecord{Kind: kind, LangType: langType, SpecificInfo: NoTypeSpecificInfo}
	c.types = append(c.types, rec)
	c.typeIndex[key] = id
	c.emit(newTypeEvent(rec))
	return id
}

// ensureRawTypeID interns by the whole TypeRecord, used for struct and
// pointer types whose shape (not just their name) matters to
// replayers.
func (c *core) ensureRawTypeID(t TypeRecord) TypeID {
	key := typeRecordKey(t)
	if id, ok := c.rawTypeIndex[key]; ok {
		return id
	}
	id := TypeID(nextSlot(len(c.types)))
	c.types = append(c.types, t)
	c.rawTypeIndex[key] = id
	c.emit(newTypeEvent(t))
	return id
}

// typeRecordKey builds a deterministic identity string for a whole
// TypeRecord, including its TypeSpecificInfo shape.
func typeRecordKey(t TypeRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d\x1f%s\x1f%d", t.Kind, t.LangType, t.SpecificInfo.Kind)
	switch t.SpecificInfo.Kind {
	case TypeSpecificStruct:
		for _, f := range t.SpecificInfo.Fields {
			fmt.Fprintf(&b, "\x1f%s\x1f%d", f.Name, f.TypeID)
		}
	case TypeSpecificPointer:
		fmt.Fprintf(&b, "\x1f%d", t.SpecificInfo.DereferenceTypeID)
	}
	return b.String()
}

func (c *core) pathSnapshot() []string {
	out := make([]string, len(c.paths))
	copy(out, c.paths)
	return out
}
