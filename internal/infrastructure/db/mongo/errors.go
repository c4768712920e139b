package mongo

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"

	"github.com/geotrail/location-log/internal/core/domain"
)

// classify maps driver errors onto the domain taxonomy.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %w", domain.ErrEmailExists, err)
	}
	if isUnavailable(err) {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return err
}

func isUnavailable(err error) bool {
	if mongo.IsNetworkError(err) {
		return true
	}
	var sse topology.ServerSelectionError
	if errors.As(err, &sse) {
		return true
	}
	return errors.Is(err, topology.ErrServerSelectionTimeout)
}
