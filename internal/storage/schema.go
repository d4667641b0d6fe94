package storage

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const taskStoreSchemaURL = "tasktrack://task-store.json"

//go:embed schema/task_store.json
var taskStoreSchema []byte

var (
	taskStoreOnce     sync.Once
	taskStoreCompiled *jsonschema.Schema
	taskStoreErr      error
)

// TaskStoreSchema compiles the embedded task-store schema once.
func TaskStoreSchema() (*jsonschema.Schema, error) {
	taskStoreOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(taskStoreSchemaURL, bytes.NewReader(taskStoreSchema)); err != nil {
			taskStoreErr = fmt.Errorf("add task-store schema: %w", err)
			return
		}
		taskStoreCompiled, taskStoreErr = compiler.Compile(taskStoreSchemaURL)
		if taskStoreErr != nil {
			taskStoreErr = fmt.Errorf("compile task-store schema: %w", taskStoreErr)
		}
	})
	return taskStoreCompiled, taskStoreErr
}
