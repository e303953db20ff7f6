package manifest

// CoreRecommendedPackage is the one requirement kept in step between the
// project manifest and the upstream manifest.
const CoreRecommendedPackage = "drupal/core-recommended"

// Manifest is a composer.json document with accessors for the fields the
// upstream commands care about. Every other field is carried through untouched.
type Manifest struct {
	*Document
}

// New returns an empty manifest.
func New() *Manifest {
	return &Manifest{Document: NewDocument()}
}

// Name returns the package name, or "" if the manifest has none.
func (m *Manifest) Name() string {
	name, _ := m.GetString("name")
	return name
}

// Requirement returns the version constraint for pkg in the require section.
func (m *Manifest) Requirement(pkg string) (string, bool) {
	req, ok := m.Object("require")
	if !ok {
		return "", false
	}
	return req.GetString(pkg)
}

// SetRequirement sets pkg's constraint, creating the require section if needed.
func (m *Manifest) SetRequirement(pkg, constraint string) {
	req, ok := m.Object("require")
	if !ok {
		req = NewDocument()
		m.Set("require", req)
	}
	req.Set(pkg, constraint)
}

// ReplaceRequirements swaps the whole require section for req.
func (m *Manifest) ReplaceRequirements(req *Document) {
	m.Set("require", req)
}

// Repositories returns the repositories list. A missing or non-list value
// yields an empty list.
func (m *Manifest) Repositories() []any {
	v, ok := m.Get("repositories")
	if !ok {
		return []any{}
	}
	list, ok := v.([]any)
	if !ok {
		return []any{}
	}
	return list
}

// Clone returns a deep copy of the manifest.
func (m *Manifest) Clone() *Manifest {
	return &Manifest{Document: m.Document.Clone()}
}
