// Package dataset loads the flat Q&A file backing practice questions. Records
// get 0-based ids; the id on each evaluation is an opaque pass-through of the
// dataset id.
package dataset

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/evalab/grader-api/internal/dto"
)

const schemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "minItems": 1,
  "items": {
    "type": "object",
    "required": ["question", "answer"],
    "properties": {
      "question": {"type": "string"},
      "answer": {"type": "string"}
    }
  }
}`

// Dataset is an immutable, in-memory view of the Q&A file.
type Dataset struct {
	records []dto.QuestionResponse
}

// Load reads and validates the Q&A JSON file. Records with a blank question or
// answer are skipped with a warning; an empty result is an error.
func Load(path string, logger zerolog.Logger) (*Dataset, error) {
	log := logger.With().Str("component", "dataset").Logger()

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read qa dataset %s: %w", path, err)
	}

	var document any
	if err := json.Unmarshal(raw, &document); err != nil {
		return nil, fmt.Errorf("parse qa dataset %s: %w", path, err)
	}

	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(document); err != nil {
		return nil, fmt.Errorf("qa dataset %s failed validation: %w", path, err)
	}

	var entries []struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	}
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode qa dataset %s: %w", path, err)
	}

	records := make([]dto.QuestionResponse, 0, len(entries))
	for idx, entry := range entries {
		question := strings.TrimSpace(entry.Question)
		answer := strings.TrimSpace(entry.Answer)
		if question == "" || answer == "" {
			log.Warn().Int("index", idx).Msg("skipping record with empty question or answer")
			continue
		}
		records = append(records, dto.QuestionResponse{
			ID:       idx,
			Question: question,
			Answer:   answer,
		})
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("qa dataset %s contains no usable records", path)
	}

	log.Info().Int("records", len(records)).Str("path", path).Msg("qa dataset loaded")
	return &Dataset{records: records}, nil
}

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("qa_dataset.schema.json", strings.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("register qa dataset schema: %w", err)
	}
	schema, err := compiler.Compile("qa_dataset.schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile qa dataset schema: %w", err)
	}
	return schema, nil
}

// Len reports the number of usable records.
func (d *Dataset) Len() int {
	return len(d.records)
}

// Random returns a uniformly chosen record.
func (d *Dataset) Random() dto.QuestionResponse {
	return d.records[rand.Intn(len(d.records))]
}

// ByID looks up a record by its dataset id.
func (d *Dataset) ByID(id int) (dto.QuestionResponse, error) {
	for _, record := range d.records {
		if record.ID == id {
			return record, nil
		}
	}

	available := make([]string, 0, len(d.records))
	for _, record := range d.records {
		available = append(available, fmt.Sprintf("%d", record.ID))
	}
	return dto.QuestionResponse{}, fmt.Errorf("question id %d not found, available ids: %s", id, strings.Join(available, ", "))
}
