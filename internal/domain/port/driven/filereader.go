package driven

// FileReader defines the driven port for reading local files (the coverage
// report, the CODEOWNERS file, the plan text). Injecting it keeps the
// decision engines pure functions over explicit inputs.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}
