package errors

// Convenience functions for common error patterns

// Config errors

func ConfigError(message string, cause error) *AppError {
	return Wrap(cause, CategoryConfig, SeverityFatal, message)
}

func ProjectRootError(root string, cause error) *AppError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "project root cannot be resolved").
		WithContext("root", root)
}

// Validation errors

func MissingRequiredFile(path string) *AppError {
	return New(CategoryValidation, SeverityFatal, "could not find a required file").
		WithContext("path", path)
}

// Build pipeline errors

func OutputDirError(operation string, cause error) *AppError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "output directory operation failed").
		WithContext("operation", operation)
}

func CompileFailed(cause error) *AppError {
	return Wrap(cause, CategoryCompile, SeverityFatal, "failed to compile")
}

// Internal errors

func InternalError(message string, cause error) *AppError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
