package configuration

func keyIsNotEmpty(key string) bool {
	return key != ""
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
