package export

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/commerce-ml/data-exporter/internal/domain/export"
	"github.com/commerce-ml/data-exporter/internal/domain/shared"
)

// Storage folders for the individual training-data exports
const (
	FolderMBA    = "apriori"
	FolderCS     = "customer-segmentation"
	FolderCBF    = "content-based-filtering"
	FolderCSVRaw = "customer-segmentation/training-data"
)

// Run messages
const (
	responseMessage = "Data upload successful"
	logMessage      = "Uploaded Market Basket Analysis (MBA) data, Content-Based Filtering (CBF) data, and Customer Segmentation (CS) JSON files to S3 successfully"
)

// errUploadRejected covers the case where the store reports a non-success
// result without an error of its own.
var errUploadRejected = shared.NewDomainError(export.ErrCodeUploadFailed, "S3 upload failed")

// OrderSource fetches one page of orders from the commerce platform.
type OrderSource interface {
	FetchOrders(ctx context.Context) (export.OrderPage, error)
}

// ProductSource fetches one page of products from the commerce platform.
type ProductSource interface {
	FetchProducts(ctx context.Context) (export.ProductPage, error)
}

// TrainingDataStore uploads training-data payloads to blob storage.
// The boolean mirrors the store's success signal; a false result without an
// error still fails the run.
type TrainingDataStore interface {
	UploadJSON(ctx context.Context, folder string, payload any) (bool, error)
	UploadCSV(ctx context.Context, folder string, rows [][]string) (bool, error)
}

// JobService orchestrates one export run: fetch orders and products, map
// them into the four training-data shapes, upload each, and persist a run
// log. All collaborators are injected; the service holds no cross-run state.
type JobService struct {
	orders    OrderSource
	products  ProductSource
	store     TrainingDataStore
	runLogger *RunLogger
	logger    *zap.Logger
}

// NewJobService creates a JobService with the given collaborators.
func NewJobService(
	orders OrderSource,
	products ProductSource,
	store TrainingDataStore,
	runLogger *RunLogger,
	logger *zap.Logger,
) *JobService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JobService{
		orders:    orders,
		products:  products,
		store:     store,
		runLogger: runLogger,
		logger:    logger,
	}
}

// Run executes one export run and returns the success message for the HTTP
// response. On failure it writes a best-effort failure log (a log-sink error
// supersedes the original one) and returns the recognized domain error, or a
// generic internal error for anything unrecognized.
func (s *JobService) Run(ctx context.Context) (string, error) {
	startTime := time.Now()
	log := s.logger.With(zap.String("run_id", uuid.NewString()))

	message, err := s.run(ctx, log, startTime)
	if err != nil {
		return "", s.failRun(ctx, log, startTime, err)
	}
	return message, nil
}

func (s *JobService) run(ctx context.Context, log *zap.Logger, startTime time.Time) (string, error) {
	log.Info("Fetching orders")
	orders, err := s.orders.FetchOrders(ctx)
	if err != nil {
		return "", err
	}

	log.Info("Fetching products")
	products, err := s.products.FetchProducts(ctx)
	if err != nil {
		return "", err
	}

	mba, err := export.MapOrderForMBA(orders)
	if err != nil {
		return "", err
	}
	cs, err := export.MapOrderForCS(orders)
	if err != nil {
		return "", err
	}
	csvRows := export.MapOrderToCSV(orders)
	cbf := export.MapCBFTrainingData(products, orders)

	mbaOK, err := s.upload(ctx, log, FolderMBA, mba)
	if err != nil {
		return "", err
	}
	csOK, err := s.upload(ctx, log, FolderCS, cs)
	if err != nil {
		return "", err
	}
	cbfOK, err := s.upload(ctx, log, FolderCBF, cbf)
	if err != nil {
		return "", err
	}

	log.Info("Uploading CSV training data", zap.String("folder", FolderCSVRaw), zap.Int("rows", len(csvRows)))
	csvOK, err := s.store.UploadCSV(ctx, FolderCSVRaw, csvRows)
	if err != nil {
		return "", err
	}
	if !csvOK {
		return "", errUploadRejected
	}

	if err := s.runLogger.Write(ctx, logMessage, len(orders.Results), startTime, mbaOK, csOK, cbfOK, csvOK); err != nil {
		return "", err
	}

	log.Info("Export run completed",
		zap.Int("orders_processed", len(orders.Results)),
		zap.Int("products_processed", len(products.Results)),
	)
	return responseMessage, nil
}

func (s *JobService) upload(ctx context.Context, log *zap.Logger, folder string, payload any) (bool, error) {
	log.Info("Uploading JSON training data", zap.String("folder", folder))
	ok, err := s.store.UploadJSON(ctx, folder, payload)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, errUploadRejected
	}
	return true, nil
}

// failRun writes the failure log record and translates the error for the
// boundary. Recognized domain errors pass through; everything else becomes
// a generic internal error.
func (s *JobService) failRun(ctx context.Context, log *zap.Logger, startTime time.Time, runErr error) error {
	message := "Internal Server Error"
	var domainErr *shared.DomainError
	recognized := errors.As(runErr, &domainErr)
	if recognized {
		message = domainErr.Message
	}

	log.Error("Export run failed", zap.Error(runErr))

	if logErr := s.runLogger.Write(ctx, message, 0, startTime, false, false, false, false); logErr != nil {
		log.Error("Failed to persist failure run log", zap.Error(logErr))
		return logErr
	}

	if recognized {
		return domainErr
	}
	return shared.ErrInternal
}
