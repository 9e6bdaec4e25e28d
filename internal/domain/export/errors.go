package export

import (
	"fmt"

	"github.com/commerce-ml/data-exporter/internal/domain/shared"
)

// Error codes for export domain errors
const (
	ErrCodeNoOrdersFound = "NO_ORDERS_FOUND"
	ErrCodeUploadFailed  = "S3_UPLOAD_FAILED"
)

// ErrNoOrdersFound signals an empty order page: the run is skipped and no
// data is uploaded. It is an empty-data condition, not a transport failure.
var ErrNoOrdersFound = shared.NewDomainError(
	ErrCodeNoOrdersFound,
	"No orders found, cron job skipped, no data uploaded to S3",
)

// NewUploadError wraps a blob-storage upload failure, preserving the
// original error's message.
func NewUploadError(cause error) *shared.DomainError {
	return shared.NewDomainError(
		ErrCodeUploadFailed,
		fmt.Sprintf("Failed to upload data to S3: %v", cause),
	)
}
