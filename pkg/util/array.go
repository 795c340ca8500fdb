package util

// InSlice reports whether item is in slice
// InSlice 判断元素是否在切片中
func InSlice[T comparable](slice []T, item T) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}

// ArrayUnique removes duplicate elements, keeping first-seen order
// ArrayUnique 移除切片中的重复元素，保持首次出现的顺序
func ArrayUnique[T comparable](arr []T) []T {
	result := make([]T, 0, len(arr))
	seen := make(map[T]struct{}, len(arr))
	for _, v := range arr {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}
