package opj

// OwnerKind is the kind of entity that owns a DataIndex.
type OwnerKind int

const (
	OwnerSpreadsheet OwnerKind = iota
	OwnerMatrix
	OwnerWorkbook
	OwnerFunction
)

var ownerPrefixes = [...]string{"T", "M", "E", "F"}

// Prefix returns the one-letter tag used in curve data names.
func (k OwnerKind) Prefix() string {
	if k >= 0 && int(k) < len(ownerPrefixes) {
		return ownerPrefixes[k]
	}
	return "?"
}

// DataRef is what a DataIndex resolves to.
type DataRef struct {
	Kind  OwnerKind
	Owner string
	// Column is empty for matrices and functions.
	Column string
}

// DataName returns the owner-prefixed name, e.g. "T_Data1".
func (r DataRef) DataName() string {
	return r.Kind.Prefix() + "_" + r.Owner
}

// dataIndexResolver maps data indexes to their owners. Spreadsheet columns
// are re-registered under their workbook when a spreadsheet is promoted.
type dataIndexResolver struct {
	refs map[DataIndex]DataRef
}

func newDataIndexResolver() *dataIndexResolver {
	return &dataIndexResolver{refs: make(map[DataIndex]DataRef)}
}

func (r *dataIndexResolver) register(idx DataIndex, ref DataRef) {
	r.refs[idx] = ref
}

func (r *dataIndexResolver) resolve(idx DataIndex) (DataRef, bool) {
	ref, ok := r.refs[idx]
	return ref, ok
}

// ObjectKind is the kind of a window in the project tree.
type ObjectKind int

const (
	ObjectSpreadsheet ObjectKind = iota
	ObjectMatrix
	ObjectWorkbook
	ObjectGraph
	ObjectNote
)

var objectKindNames = [...]string{"spreadsheet", "matrix", "workbook", "graph", "note"}

func (k ObjectKind) String() string {
	if k >= 0 && int(k) < len(objectKindNames) {
		return objectKindNames[k]
	}
	return "unknown"
}

// ObjectRef is what an ObjectID resolves to.
type ObjectRef struct {
	Kind ObjectKind
	Name string
}

type objectIndexResolver struct {
	refs map[ObjectID]ObjectRef
}

func newObjectIndexResolver() *objectIndexResolver {
	return &objectIndexResolver{refs: make(map[ObjectID]ObjectRef)}
}

func (r *objectIndexResolver) register(id ObjectID, ref ObjectRef) {
	r.refs[id] = ref
}

func (r *objectIndexResolver) resolve(id ObjectID) (ObjectRef, bool) {
	ref, ok := r.refs[id]
	return ref, ok
}
