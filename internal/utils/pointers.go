package utils

import "strconv"

func IntPtr(i int) *int {
	return &i
}

func StringPtr(s string) *string {
	return &s
}

func PtrString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func PtrStringOr(s *string, defaultVal string) string {
	if s == nil || *s == "" {
		return defaultVal
	}
	return *s
}

func PtrIntString(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}
