package storage

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"duely/internal/task"
)

const schemaURL = "tasks.schema.json"

//go:embed tasks.schema.json
var schemaJSON []byte

var tasksSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, err
	}
	return compiler.Compile(schemaURL)
})

// decodeTasks validates blob against the collection schema before decoding
// it, so a structurally wrong blob is rejected as a whole.
func decodeTasks(blob []byte) ([]task.Task, error) {
	schema, err := tasksSchema()
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(blob, &doc); err != nil {
		return nil, fmt.Errorf("parse blob: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid blob: %s", schemaErrors(err))
	}

	var tasks []task.Task
	if err := json.Unmarshal(blob, &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	seen := make(map[int64]struct{}, len(tasks))
	for _, t := range tasks {
		if _, dup := seen[t.ID]; dup {
			return nil, fmt.Errorf("duplicate task id %d", t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	return tasks, nil
}

func schemaErrors(err error) string {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err.Error()
	}
	var msgs []string
	collectSchemaErrors(ve, &msgs)
	return strings.Join(msgs, "; ")
}

func collectSchemaErrors(err *jsonschema.ValidationError, msgs *[]string) {
	if len(err.Causes) == 0 {
		loc := err.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*msgs = append(*msgs, loc+": "+err.Message)
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(cause, msgs)
	}
}
