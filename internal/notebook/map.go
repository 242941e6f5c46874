package notebook

// Map is a JSON object inside a notebook. Lookups never create keys.
type Map map[string]any

// Has reports whether key is present, whatever its value.
func (m Map) Has(key string) bool {
	if m == nil {
		return false
	}
	_, ok := m[key]
	return ok
}

// Map returns the nested object stored at key, or nil when the key is
// absent or does not hold an object.
func (m Map) Map(key string) Map {
	if m == nil {
		return nil
	}
	if v, ok := m[key].(map[string]any); ok {
		return Map(v)
	}
	return nil
}

// List returns the list stored at key and whether key holds a list.
func (m Map) List(key string) ([]any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m[key].([]any)
	return v, ok
}

// Set stores value at key.
func (m Map) Set(key string, value any) {
	m[key] = value
}

// Delete removes key and reports whether it was present.
func (m Map) Delete(key string) bool {
	if !m.Has(key) {
		return false
	}
	delete(m, key)
	return true
}

// Cell is one notebook cell.
type Cell struct {
	m Map
}

// CellTypeCode is the cell_type of cells that carry execution state.
const CellTypeCode = "code"

// Type returns the cell_type, or "" when missing.
func (c Cell) Type() string {
	t, _ := c.m["cell_type"].(string)
	return t
}

// Metadata returns the cell metadata, or nil when absent.
func (c Cell) Metadata() Map {
	return c.m.Map("metadata")
}

// ExecutionCount returns the raw execution_count value.
func (c Cell) ExecutionCount() any {
	return c.m["execution_count"]
}

// ClearExecutionCount sets execution_count to null.
func (c Cell) ClearExecutionCount() {
	c.m.Set("execution_count", nil)
}

// Outputs returns the cell outputs.
func (c Cell) Outputs() []any {
	out, _ := c.m.List("outputs")
	return out
}

// ClearOutputs replaces the outputs with an empty list.
func (c Cell) ClearOutputs() {
	c.m.Set("outputs", []any{})
}
