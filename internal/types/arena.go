package types

// ClassArena holds every extracted class for one run in a flat slice,
// addressed by ClassID, with a name index built once at merge time.
// Downstream graph stages resolve type names through the index instead of
// scanning the slice, so edge construction stays O(n).
type ClassArena struct {
	Classes []ClassModel
	byName  map[string]ClassID
}

// NewClassArena builds an arena from the merged per-file class lists.
// On duplicate class names the first occurrence wins, matching the
// deterministic discovery order.
func NewClassArena(classes []ClassModel) *ClassArena {
	a := &ClassArena{
		Classes: classes,
		byName:  make(map[string]ClassID, len(classes)),
	}
	for i := range classes {
		name := classes[i].Name
		if _, exists := a.byName[name]; !exists {
			a.byName[name] = ClassID(i)
		}
	}
	return a
}

// Len returns the number of classes in the arena.
func (a *ClassArena) Len() int {
	return len(a.Classes)
}

// Get returns the class for an ID. IDs come from this arena only.
func (a *ClassArena) Get(id ClassID) *ClassModel {
	return &a.Classes[id]
}

// Lookup resolves a class name to its ID.
func (a *ClassArena) Lookup(name string) (ClassID, bool) {
	id, ok := a.byName[name]
	if !ok {
		return InvalidClassID, false
	}
	return id, true
}

// LookupType resolves a type name the way the data-flow heuristic sees it:
// an exact class-name match first, then the conventional interface form
// ("IPatientService" resolving to "PatientService") when the bare name is
// itself not declared.
func (a *ClassArena) LookupType(typeName string) (ClassID, bool) {
	if id, ok := a.Lookup(typeName); ok {
		return id, true
	}
	if len(typeName) > 1 && typeName[0] == 'I' && typeName[1] >= 'A' && typeName[1] <= 'Z' {
		if id, ok := a.Lookup(typeName[1:]); ok {
			return id, true
		}
	}
	return InvalidClassID, false
}
