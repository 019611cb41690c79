package importer

import (
	"errors"
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/spendwise/internal/classifier"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

var (
	ErrUnknownFormat = errors.New("unrecognized statement format")
	ErrUnknownFamily = errors.New("unknown format")
)

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Import parses a statement and fills missing categories with the classifier.
// format is empty for auto-detection, or a profile family name.
func (s *Service) Import(format string, r io.Reader) ([]transaction.CreateParams, error) {
	switch format {
	case FamilyAuto, FamilyGeneric, FamilyCGD:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFamily, format)
	}

	params, err := NewParser(format).Parse(r)
	if err != nil {
		return nil, err
	}

	for i := range params {
		if params[i].Category == "" {
			params[i].Category = string(classifier.Categorize(params[i].Label))
		}
	}

	return params, nil
}
