package document

// TopLevelLabel is how the top level choice is presented next to real entry names.
const TopLevelLabel = "Root (top-level)"

// Parent is where a new entry goes: directly under "tree", or under a named
// top-level entry. The top level is a distinct value rather than a reserved
// name, so a real entry literally called TopLevelLabel is still addressable.
type Parent struct {
	Name string
	top  bool
}

var TopLevel = Parent{
	Name: "",
	top:  true,
}

func Under(name string) Parent {
	return Parent{
		Name: name,
		top:  false,
	}
}

func (r Parent) IsTopLevel() bool {
	return r.top
}

func (r Parent) String() string {
	if r.top {
		return TopLevelLabel
	}
	return r.Name
}
