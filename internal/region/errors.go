package region

import (
	"errors"
	"fmt"
)

// ErrNilRegion is returned when a nil region is added to a Container.
var ErrNilRegion = errors.New("region is nil")

// InvalidRangeError reports a start/stop pair that violates 1 <= start <= stop.
type InvalidRangeError struct {
	Start int
	Stop  int
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid region range [%d, %d]: require 1 <= start <= stop", e.Start, e.Stop)
}

// DuplicateRegionError reports a region instance added to a Container twice.
type DuplicateRegionError struct {
	Region *Region
}

func (e *DuplicateRegionError) Error() string {
	return fmt.Sprintf("region %s already in container", e.Region)
}
