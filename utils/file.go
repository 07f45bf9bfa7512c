package utils

import (
	"math"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// ResolveFile returns the path of the given file relative to the root
// of the codebase. For example, if this file currently
// lives in utils/file.go and ./foo/bar/baz is given, then the result
// is foo/bar/baz. This is helpful when you don't want to relatively
// refer to files when you're not sure where the caller actually
// lives in relation to the target file.
func ResolveFile(fn string) string {
	//nolint:dogsled
	_, thisFilePath, _, _ := runtime.Caller(0)
	thisDirPath, err := filepath.Abs(filepath.Dir(thisFilePath))
	if err != nil {
		panic(err)
	}
	return filepath.Join(thisDirPath, "..", fn)
}

// SpaceDelimitedStringToFloatSlice splits up space-delimited fields in URDFs, such as xyz or rpy attributes.
// Fields that do not parse become NaN. Missing trailing fields are zero, so the result has at least n elements.
func SpaceDelimitedStringToFloatSlice(s string, n int) []float64 {
	slice := strings.Fields(s)
	if len(slice) == 0 {
		return make([]float64, n)
	}
	converted := make([]float64, 0, len(slice))
	for _, value := range slice {
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			value = math.NaN()
		}
		converted = append(converted, value)
	}
	for len(converted) < n {
		converted = append(converted, 0)
	}
	return converted
}
