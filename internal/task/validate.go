package task

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/duelist/internal/utils"
)

//go:embed schema.json
var bundledSchema []byte

const schemaURL = "https://github.com/nibzard/duelist/tasks.schema.json"

// BundledSchema returns the JSON Schema the task file is validated against.
func BundledSchema() []byte {
	out := make([]byte, len(bundledSchema))
	copy(out, bundledSchema)
	return out
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true
		if err := compiler.AddResource(schemaURL, bytes.NewReader(bundledSchema)); err != nil {
			compileErr = fmt.Errorf("add bundled schema: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, compileErr
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // Dotted path to the error location, e.g. [2].priority
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid    bool
	Errors   []error
	Warnings []string
}

func newResult() *ValidationResult {
	return &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}
}

// Validate checks an in-memory collection against the bundled schema and
// reports semantic problems (duplicate ids, unparseable due dates) as
// warnings.
func Validate(tasks []Task) *ValidationResult {
	result := newResult()

	data, err := json.Marshal(tasks)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Err: fmt.Errorf("failed to marshal tasks for validation: %w", err),
		})
		return result
	}
	validateRaw(result, data)
	checkSemantics(result, tasks)
	return result
}

// ValidateFile validates the raw task file at path. Unlike Validate it
// sees fields that Task does not model, so unknown keys are reported.
func ValidateFile(path string) (*ValidationResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read task file: %w", err)
	}
	result := newResult()
	validateRaw(result, data)

	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err == nil {
		checkSemantics(result, tasks)
	}
	return result, nil
}

func validateRaw(result *ValidationResult, data []byte) {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Err: fmt.Errorf("invalid JSON: %w", err),
		})
		return
	}

	s, err := schema()
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("schema unavailable: %v", err))
		return
	}

	if err := s.Validate(doc); err != nil {
		result.Valid = false
		appendSchemaErrors(result, err)
	}
}

func checkSemantics(result *ValidationResult, tasks []Task) {
	seen := make(map[string]int, len(tasks))
	for i, t := range tasks {
		if t.ID != "" {
			if first, ok := seen[t.ID]; ok {
				result.Valid = false
				result.Errors = append(result.Errors, &ValidationError{
					Path: fmt.Sprintf("[%d].id", i),
					Err:  fmt.Errorf("duplicate id %q (first used at [%d])", t.ID, first),
				})
			} else {
				seen[t.ID] = i
			}
		} else {
			result.Warnings = append(result.Warnings, fmt.Sprintf("[%d]: missing id, one will be assigned on next save", i))
		}
		if _, err := t.Due(time.Local); err != nil && !errors.Is(err, ErrNoDueDate) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("[%d].due_date: %v; task will never notify", i, err))
		}
	}
}

func appendSchemaErrors(result *ValidationResult, err error) {
	if err == nil {
		return
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		result.Errors = append(result.Errors, err)
		return
	}

	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: utils.JSONPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}
