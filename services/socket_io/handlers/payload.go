package handlers

// Socket.io hands event arguments over as loosely-typed values decoded from
// JSON. These helpers pull out the shapes the gameplay handlers expect.

func argString(args []interface{}, idx int) (string, bool) {
	if len(args) <= idx {
		return "", false
	}
	s, ok := args[idx].(string)
	return s, ok
}

func argMap(args []interface{}, idx int) (map[string]interface{}, bool) {
	if len(args) <= idx {
		return nil, false
	}
	m, ok := args[idx].(map[string]interface{})
	return m, ok
}

func mapInt(m map[string]interface{}, key string) (int, bool) {
	// JSON numbers arrive as float64
	f, ok := m[key].(float64)
	if !ok {
		return 0, false
	}
	return int(f), true
}

func mapStringSlice(m map[string]interface{}, key string) ([]string, bool) {
	raw, ok := m[key].([]interface{})
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}
