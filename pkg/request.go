package pkg

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

const DefaultMaxJSONBodyBytes = 1 << 20

var ErrInvalidID = errors.New("invalid id")

// ReadJSONBody decodes a single JSON document from the request body.
func ReadJSONBody(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, DefaultMaxJSONBodyBytes)
	decoder := json.NewDecoder(body)
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("decode json body: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("decode json body: unexpected trailing data")
	}
	return nil
}

// PathID reads the positive integer {id} path variable.
func PathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
