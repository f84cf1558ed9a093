package task

import "github.com/heartmarshall/pantau-subsidi/internal/domain"

// CreateResult is returned by Create.
type CreateResult struct {
	Task     domain.Task
	Replayed bool
}
