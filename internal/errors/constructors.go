package errors

// Convenience functions for common error patterns

// Image source errors

func LoadFailed(path string, cause error) *EdgeError {
	return Wrap(cause, CategoryLoad, SeverityFatal, "could not read the image").
		WithContext("path", path)
}

func EmptyImage(path string, height, width int) *EdgeError {
	return New(CategoryDimension, SeverityFatal, "image has zero area").
		WithContext("path", path).
		WithContext("height", height).
		WithContext("width", width)
}

// Image sink errors

func SaveFailed(path string, cause error) *EdgeError {
	return Wrap(cause, CategorySave, SeverityError, "could not write the image").
		WithContext("path", path)
}

func UnsupportedFormat(path, ext string) *EdgeError {
	return New(CategorySave, SeverityError, "unsupported output format").
		WithContext("path", path).
		WithContext("extension", ext)
}

// Configuration errors

func ConfigNotFound(path string) *EdgeError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *EdgeError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Operator errors

func UnknownOperator(name string) *EdgeError {
	return New(CategoryOperator, SeverityFatal, "unknown operator").
		WithContext("operator", name)
}

func OperatorUnavailable(name, reason string) *EdgeError {
	return New(CategoryOperator, SeverityFatal, "operator not available in this build").
		WithContext("operator", name).
		WithContext("reason", reason)
}

// Run history errors

func HistoryError(operation string, cause error) *EdgeError {
	return Wrap(cause, CategoryHistory, SeverityWarning, "run history operation failed").
		WithContext("operation", operation)
}

// Watch service errors

func WatchError(dir string, cause error) *EdgeError {
	return Wrap(cause, CategoryWatch, SeverityFatal, "watch service failed").
		WithContext("directory", dir)
}

// Internal errors

func InternalError(message string, cause error) *EdgeError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
