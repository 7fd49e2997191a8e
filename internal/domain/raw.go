package domain

// RawRecord is an unvalidated, loosely-structured record as decoded from a
// third-party catalog response. Any field may be missing or carry an
// unexpected type, so all access goes through the defensive helpers below.
type RawRecord map[string]any

// Value walks the given key path and returns the value found there.
// A missing key or a non-record intermediate yields ok=false, never a panic.
func (r RawRecord) Value(path ...string) (any, bool) {
	var cur any = map[string]any(r)
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// String returns the string at path, or ok=false if it is absent or not a string.
func (r RawRecord) String(path ...string) (string, bool) {
	v, ok := r.Value(path...)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Record returns the nested record at path.
func (r RawRecord) Record(path ...string) (RawRecord, bool) {
	v, ok := r.Value(path...)
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	return RawRecord(m), true
}

// List returns the slice at path.
func (r RawRecord) List(path ...string) ([]any, bool) {
	v, ok := r.Value(path...)
	if !ok {
		return nil, false
	}
	l, ok := v.([]any)
	return l, ok
}
