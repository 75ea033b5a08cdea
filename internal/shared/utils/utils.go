package utils

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/hibiken/asynq"
)

// ParseLimit parses a positive integer query value; empty or invalid input
// yields def, values above max are clamped.
func ParseLimit(raw string, def, max int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern turns term into an ILIKE pattern matching it anywhere,
// with LIKE wildcards in term escaped.
func ContainsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// UnmarshalTask decodes an asynq task payload into dest.
func UnmarshalTask(task *asynq.Task, dest interface{}) error {
	if err := json.Unmarshal(task.Payload(), dest); err != nil {
		return fmt.Errorf("unmarshal %s payload: %w", task.Type(), err)
	}
	return nil
}

// NewTask marshals payload and builds an asynq task of the given type.
func NewTask(taskType string, payload interface{}) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", taskType, err)
	}
	return asynq.NewTask(taskType, data), nil
}
