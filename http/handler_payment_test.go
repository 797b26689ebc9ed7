package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatepass/artifact"
	"gatepass/entity"
	"gatepass/gateway"
)

const testTokenSecret = "door-secret"

type bookingsRepoMock struct {
	mu        sync.Mutex
	bookings  map[string]entity.Booking
	existsErr error
	createErr error
}

func newBookingsRepoMock() *bookingsRepoMock {
	return &bookingsRepoMock{bookings: map[string]entity.Booking{}}
}

func (m *bookingsRepoMock) Exists(ctx context.Context, transactionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.existsErr != nil {
		return false, m.existsErr
	}
	_, ok := m.bookings[transactionID]
	return ok, nil
}

func (m *bookingsRepoMock) Create(ctx context.Context, booking entity.Booking, capacity int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return false, m.createErr
	}
	if _, ok := m.bookings[booking.TransactionID]; ok {
		return false, nil
	}
	booked := 0
	for _, b := range m.bookings {
		if b.EventID == booking.EventID {
			booked += b.Quantity
		}
	}
	if capacity-booked < booking.Quantity {
		return false, entity.ErrNoAvailableTickets
	}
	m.bookings[booking.TransactionID] = booking
	return true, nil
}

type eventsRepoMock struct {
	events map[string]entity.CatalogEvent
}

func (m *eventsRepoMock) Store(ctx context.Context, event entity.CatalogEvent) error {
	m.events[event.EventID] = event
	return nil
}

func (m *eventsRepoMock) Get(ctx context.Context, eventID string) (entity.CatalogEvent, error) {
	event, ok := m.events[eventID]
	if !ok {
		return entity.CatalogEvent{}, entity.ErrNotFound
	}
	return event, nil
}

type generatorStub struct {
	err   error
	calls int
}

func (g *generatorStub) Generate(ctx context.Context, booking entity.Booking, event entity.CatalogEvent) ([]byte, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return []byte("%PDF-stub"), nil
}

type dispatcherStub struct {
	calls   int
	fail    bool
	lastPDF []byte
}

func (d *dispatcherStub) Dispatch(ctx context.Context, booking entity.Booking, event entity.CatalogEvent, pdf []byte) entity.NotificationAttempt {
	d.calls++
	d.lastPDF = pdf
	attempt := entity.NotificationAttempt{Attempted: true, Provider: "smtp", MessageID: "<m1@gatepass>"}
	if d.fail {
		attempt.MessageID = ""
		attempt.Error = "smtp connection refused"
	}
	return attempt
}

type pipelineFixture struct {
	server   *Server
	gateway  *gateway.ClientMock
	bookings *bookingsRepoMock
	events   *eventsRepoMock
	gen      *generatorStub
	disp     *dispatcherStub
}

func newPipelineFixture() *pipelineFixture {
	f := &pipelineFixture{
		gateway:  &gateway.ClientMock{Transactions: map[string]entity.Transaction{}},
		bookings: newBookingsRepoMock(),
		events:   &eventsRepoMock{events: map[string]entity.CatalogEvent{}},
		gen:      &generatorStub{},
		disp:     &dispatcherStub{},
	}
	f.server = NewServer(":0", testTokenSecret, f.gateway, f.bookings, f.events, f.gen, f.disp)
	return f
}

func (f *pipelineFixture) postCallback(t *testing.T, transactionID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/payments/"+transactionID+"/callback", bytes.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func seedScenario(f *pipelineFixture) {
	f.events.events["42"] = entity.CatalogEvent{
		EventID:      "42",
		Name:         "Evening Show",
		Date:         "2026-09-01",
		Venue:        "Town Hall",
		TotalTickets: 10,
	}
	f.gateway.Transactions["T1"] = entity.Transaction{
		ID:          "T1",
		ProcessorID: "403993715521",
		Status:      "success",
		Amount:      "299",
		ProductInfo: `%7B%22eventId%22%3A%2242%22%2C%22userId%22%3A%22u1%22%2C%22ticketType%22%3A%22Regular%22%2C%22quantity%22%3A1%7D`,
		FirstName:   "Jane",
		Email:       "jane@test.io",
		BankRefNum:  "BR123",
		Mode:        "CC",
		UDF1:        "42",
		UDF2:        "u1",
		UDF3:        "Regular",
		UDF4:        "1",
	}
}

func TestPostPaymentCallback_CreatesBookingAndNotifies(t *testing.T) {
	f := newPipelineFixture()
	seedScenario(f)

	rec := f.postCallback(t, "T1", paymentCallbackRequest{Status: "success", Amount: "299"})

	require.Equal(t, http.StatusOK, rec.Code)

	var response paymentCallbackResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))

	assert.Equal(t, "T1", response.TransactionID)
	assert.Equal(t, "403993715521", response.ProcessorID)
	assert.Equal(t, "success", response.Status)
	assert.Equal(t, "299", response.Amount)
	assert.Equal(t, "BR123", response.BankRefNum)
	assert.True(t, response.Notification.Attempted)
	assert.Equal(t, "smtp", response.Notification.Provider)
	assert.NotEmpty(t, response.Notification.MessageID)

	booking, ok := f.bookings.bookings["T1"]
	require.True(t, ok)
	assert.Equal(t, "42", booking.EventID)
	assert.Equal(t, "u1", booking.UserID)
	assert.Equal(t, entity.PaymentStatusCompleted, booking.PaymentStatus)
	assert.Equal(t, entity.BookingStatusConfirmed, booking.Status)
	assert.Equal(t, "Regular", booking.TicketType)

	id, valid := artifact.VerifyToken(booking.QRToken, testTokenSecret)
	assert.True(t, valid)
	assert.Equal(t, "T1", id)

	assert.Equal(t, 1, f.gen.calls)
	assert.Equal(t, 1, f.disp.calls)
	assert.Equal(t, []byte("%PDF-stub"), f.disp.lastPDF)
}

func TestPostPaymentCallback_DuplicateIsReadOnly(t *testing.T) {
	f := newPipelineFixture()
	seedScenario(f)

	first := f.postCallback(t, "T1", paymentCallbackRequest{Status: "success"})
	require.Equal(t, http.StatusOK, first.Code)

	second := f.postCallback(t, "T1", paymentCallbackRequest{Status: "success"})
	require.Equal(t, http.StatusOK, second.Code)

	var response paymentCallbackResponse
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &response))

	assert.Equal(t, "T1", response.TransactionID)
	assert.Equal(t, "success", response.Status)
	assert.False(t, response.Notification.Attempted)
	assert.Empty(t, response.Notification.Provider)

	assert.Len(t, f.bookings.bookings, 1)
	assert.Equal(t, 1, f.disp.calls)
	assert.Equal(t, 1, f.gen.calls)
}

func TestPostPaymentCallback_VerificationFailureIsFatal(t *testing.T) {
	f := newPipelineFixture()
	f.gateway.VerifyErr = errors.New("gateway unreachable")

	rec := f.postCallback(t, "T1", paymentCallbackRequest{Status: "success"})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Empty(t, f.bookings.bookings)
	assert.Equal(t, 0, f.disp.calls)
}

func TestPostPaymentCallback_FailedPaymentDoesNotBook(t *testing.T) {
	f := newPipelineFixture()
	seedScenario(f)

	tx := f.gateway.Transactions["T1"]
	tx.Status = entity.TransactionStatusFailure
	f.gateway.Transactions["T1"] = tx

	// the client still claims success in the echoed body
	rec := f.postCallback(t, "T1", paymentCallbackRequest{Status: "success", Amount: "299"})

	require.Equal(t, http.StatusOK, rec.Code)

	var response paymentCallbackResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "failure", response.Status)
	assert.False(t, response.Notification.Attempted)

	assert.Empty(t, f.bookings.bookings)
	assert.Equal(t, 0, f.gen.calls)
	assert.Equal(t, 0, f.disp.calls)
}

func TestPostPaymentCallback_PendingPaymentBooksOnceCompleted(t *testing.T) {
	f := newPipelineFixture()
	seedScenario(f)

	tx := f.gateway.Transactions["T1"]
	tx.Status = entity.TransactionStatusPending
	f.gateway.Transactions["T1"] = tx

	first := f.postCallback(t, "T1", paymentCallbackRequest{Status: "pending"})
	require.Equal(t, http.StatusOK, first.Code)
	assert.Empty(t, f.bookings.bookings)

	// the payer completes payment and the gateway reports success
	tx.Status = entity.TransactionStatusSuccess
	f.gateway.Transactions["T1"] = tx

	second := f.postCallback(t, "T1", paymentCallbackRequest{Status: "success"})
	require.Equal(t, http.StatusOK, second.Code)

	booking, ok := f.bookings.bookings["T1"]
	require.True(t, ok)
	assert.Equal(t, entity.PaymentStatusCompleted, booking.PaymentStatus)
	assert.Equal(t, 1, f.disp.calls)
}

func TestPostPaymentCallback_CarrierFieldsBeatClientSources(t *testing.T) {
	f := newPipelineFixture()
	seedScenario(f)

	// client claims a different event in both the snapshot and the descriptor
	rec := f.postCallback(t, "T1", paymentCallbackRequest{
		Status:      "success",
		ProductInfo: `{"eventId":"666"}`,
		Stored:      &entity.StoredSnapshot{EventID: "999", Quantity: 5},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	booking := f.bookings.bookings["T1"]
	assert.Equal(t, "42", booking.EventID)
	assert.Equal(t, 1, booking.Quantity)
}

func TestPostPaymentCallback_UnparsableDescriptorStillBooks(t *testing.T) {
	f := newPipelineFixture()
	seedScenario(f)

	tx := f.gateway.Transactions["T1"]
	tx.ProductInfo = "2 tickets for the evening show"
	tx.FirstName = ""
	tx.Email = ""
	f.gateway.Transactions["T1"] = tx

	rec := f.postCallback(t, "T1", paymentCallbackRequest{Status: "success"})
	require.Equal(t, http.StatusOK, rec.Code)

	booking, ok := f.bookings.bookings["T1"]
	require.True(t, ok)
	assert.Equal(t, "Guest", booking.AttendeeName)
	assert.Equal(t, "guest@example.invalid", booking.AttendeeEmail)
}

func TestPostPaymentCallback_InventoryConflict(t *testing.T) {
	f := newPipelineFixture()
	seedScenario(f)

	event := f.events.events["42"]
	event.TotalTickets = 0
	f.events.events["42"] = event

	rec := f.postCallback(t, "T1", paymentCallbackRequest{Status: "success"})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Empty(t, f.bookings.bookings)
	assert.Equal(t, 0, f.disp.calls)
}

func TestPostPaymentCallback_PersistenceFailureAbsorbed(t *testing.T) {
	f := newPipelineFixture()
	seedScenario(f)
	f.bookings.createErr = errors.New("connection reset")

	rec := f.postCallback(t, "T1", paymentCallbackRequest{Status: "success"})

	require.Equal(t, http.StatusOK, rec.Code)

	var response paymentCallbackResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "success", response.Status)
	assert.False(t, response.Notification.Attempted)
	assert.Equal(t, 0, f.disp.calls)
}

func TestPostPaymentCallback_NotificationFailureDoesNotBlock(t *testing.T) {
	f := newPipelineFixture()
	seedScenario(f)
	f.disp.fail = true

	rec := f.postCallback(t, "T1", paymentCallbackRequest{Status: "success"})

	require.Equal(t, http.StatusOK, rec.Code)

	var response paymentCallbackResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.True(t, response.Notification.Attempted)
	assert.Contains(t, response.Notification.Error, "smtp connection refused")

	_, ok := f.bookings.bookings["T1"]
	assert.True(t, ok)
}

func TestPostPaymentCallback_ArtifactFailureMeansNoAttachment(t *testing.T) {
	f := newPipelineFixture()
	seedScenario(f)
	f.gen.err = errors.New("image decode failed")

	rec := f.postCallback(t, "T1", paymentCallbackRequest{Status: "success"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, f.disp.calls)
	assert.Nil(t, f.disp.lastPDF)

	_, ok := f.bookings.bookings["T1"]
	assert.True(t, ok)
}

func TestPostPaymentCallback_UnknownEventAbsorbed(t *testing.T) {
	f := newPipelineFixture()
	seedScenario(f)
	delete(f.events.events, "42")

	rec := f.postCallback(t, "T1", paymentCallbackRequest{Status: "success"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, f.bookings.bookings)
	assert.Equal(t, 0, f.disp.calls)
}
