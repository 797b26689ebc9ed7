package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"gatepass/artifact"
	"gatepass/entity"
	"gatepass/log"
	"gatepass/metrics"
	"gatepass/reconcile"
)

type paymentCallbackRequest struct {
	ProcessorID  string                 `json:"mihpayid"`
	Status       string                 `json:"status"`
	Amount       string                 `json:"amount"`
	ProductInfo  string                 `json:"productinfo"`
	FirstName    string                 `json:"firstname"`
	Email        string                 `json:"email"`
	Phone        string                 `json:"phone"`
	ErrorMessage string                 `json:"error_message"`
	Stored       *entity.StoredSnapshot `json:"stored"`
}

type paymentCallbackResponse struct {
	TransactionID string `json:"txnid"`
	ProcessorID   string `json:"mihpayid"`
	Status        string `json:"status"`
	Amount        string `json:"amount"`
	ProductInfo   string `json:"productinfo"`
	FirstName     string `json:"firstname"`
	Email         string `json:"email"`
	ErrorMessage  string `json:"error_message,omitempty"`
	BankRefNum    string `json:"bank_ref_num"`
	Mode          string `json:"mode"`
	UDF1          string `json:"udf1"`
	UDF2          string `json:"udf2"`
	UDF3          string `json:"udf3"`
	UDF4          string `json:"udf4"`
	UDF5          string `json:"udf5"`

	Notification entity.NotificationAttempt `json:"notification"`
}

// PostPaymentCallback is the reconciliation pipeline. The request body is
// untrusted throughout; every response field of consequence comes from the
// gateway's verified record. Only a verification failure or an inventory
// conflict may change the HTTP outcome — persistence, artifact and
// notification problems are absorbed so a paid transaction is always
// acknowledged.
func (s *Server) PostPaymentCallback(c echo.Context) error {
	start := time.Now()
	defer func() {
		metrics.CallbackDuration.Observe(time.Since(start).Seconds())
	}()

	transactionID := c.Param("transaction_id")
	if transactionID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "transaction id is required")
	}

	var request paymentCallbackRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	ctx := c.Request().Context()
	logger := log.FromContext(ctx).WithField("transaction_id", transactionID)

	verified, err := s.gateway.VerifyTransaction(ctx, transactionID)
	if err != nil {
		metrics.CallbacksProcessed.WithLabelValues(metrics.ResultVerifyFail).Inc()
		logger.WithError(err).Error("could not establish transaction truth")
		return echo.NewHTTPError(http.StatusBadGateway, "could not verify transaction with gateway")
	}

	response := newCallbackResponse(verified, request.ErrorMessage)

	// Only a payment the gateway confirms as successful may book, admit, or
	// notify. Transactions still pending do not exist yet as far as the
	// booking store is concerned, so a later callback after the payer
	// completes payment gets a fresh reconciliation run.
	if verified.Status != entity.TransactionStatusSuccess {
		metrics.CallbacksProcessed.WithLabelValues(metrics.ResultNotPaid).Inc()
		logger.WithField("status", verified.Status).Info("transaction not successful, skipping booking")
		return c.JSON(http.StatusOK, response)
	}

	descriptor := verified.ProductInfo
	if descriptor == "" {
		descriptor = request.ProductInfo
	}

	booking := reconcile.Merge(verified, request.Stored, reconcile.DecodeProductInfo(descriptor))
	booking.QRToken = artifact.VerificationToken(transactionID, s.tokenSecret)

	exists, err := s.bookingsRepo.Exists(ctx, transactionID)
	if err != nil {
		metrics.CallbacksProcessed.WithLabelValues(metrics.ResultError).Inc()
		logger.WithError(err).Error("could not check existing booking")
		return c.JSON(http.StatusOK, response)
	}
	if exists {
		metrics.DuplicateCallbacks.Inc()
		metrics.CallbacksProcessed.WithLabelValues(metrics.ResultDuplicate).Inc()
		logger.Info("booking already exists, skipping side effects")
		return c.JSON(http.StatusOK, response)
	}

	event, err := s.eventsRepo.Get(ctx, booking.EventID)
	if err != nil {
		metrics.CallbacksProcessed.WithLabelValues(metrics.ResultError).Inc()
		logger.WithError(err).WithField("event_id", booking.EventID).Error("could not load catalog event")
		return c.JSON(http.StatusOK, response)
	}

	created, err := s.bookingsRepo.Create(ctx, booking, event.TotalTickets)
	if err != nil {
		if errors.Is(err, entity.ErrNoAvailableTickets) {
			metrics.CallbacksProcessed.WithLabelValues(metrics.ResultConflict).Inc()
			return echo.NewHTTPError(http.StatusConflict, "not enough tickets available")
		}

		metrics.CallbacksProcessed.WithLabelValues(metrics.ResultError).Inc()
		logger.WithError(err).Error("could not store booking")
		return c.JSON(http.StatusOK, response)
	}
	if !created {
		// concurrent duplicate won the insert race
		metrics.DuplicateCallbacks.Inc()
		metrics.CallbacksProcessed.WithLabelValues(metrics.ResultDuplicate).Inc()
		return c.JSON(http.StatusOK, response)
	}

	metrics.BookingsCreated.Inc()
	metrics.CallbacksProcessed.WithLabelValues(metrics.ResultBooked).Inc()
	logger.Info("booking created")

	pdf, err := s.artifacts.Generate(ctx, booking, event)
	if err != nil {
		logger.WithError(err).Error("could not generate ticket artifact, notifying without attachment")
		pdf = nil
	}

	attempt := s.notifier.Dispatch(ctx, booking, event, pdf)
	if attempt.Error != "" {
		metrics.NotificationFailures.Inc()
	}
	response.Notification = attempt

	return c.JSON(http.StatusOK, response)
}

func newCallbackResponse(verified entity.Transaction, errorMessage string) paymentCallbackResponse {
	return paymentCallbackResponse{
		TransactionID: verified.ID,
		ProcessorID:   verified.ProcessorID,
		Status:        verified.Status,
		Amount:        verified.Amount,
		ProductInfo:   verified.ProductInfo,
		FirstName:     verified.FirstName,
		Email:         verified.Email,
		ErrorMessage:  errorMessage,
		BankRefNum:    verified.BankRefNum,
		Mode:          verified.Mode,
		UDF1:          verified.UDF1,
		UDF2:          verified.UDF2,
		UDF3:          verified.UDF3,
		UDF4:          verified.UDF4,
		UDF5:          verified.UDF5,
	}
}
