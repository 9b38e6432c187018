// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/decor-finance/backend/config"
	"github.com/decor-finance/backend/internal/domain/entity"
	"github.com/decor-finance/backend/internal/infra/dependency"
	"github.com/decor-finance/backend/internal/integration/adapters"
	"github.com/decor-finance/backend/internal/integration/entrypoint/controller"
	"github.com/decor-finance/backend/internal/integration/persistence/model"
	"github.com/decor-finance/backend/test/integration/mock"
)

const testJWTSecret = "test-jwt-secret-key-for-testing-purposes"

// testEpoch is the instant the mocked clock starts from in every scenario.
var testEpoch = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

var tableOrder = []string{
	"bank_movements",
	"quotes",
	"receivables",
	"receivable_installments",
	"payables",
	"reconciliation_patterns",
	"reconciliation_pattern_events",
}

// TestContext holds the test state for each scenario.
type TestContext struct {
	// HTTP
	server   *httptest.Server
	client   *http.Client
	headers  map[string]string
	response *response

	// Fixtures
	db       *mock.Db
	timeMock *mock.Time
	cfg      *config.Config

	// Auth
	accessToken string
	tenants     map[string]uuid.UUID
	tenantID    uuid.UUID

	// Captured IDs
	movementID    uuid.UUID
	payableID     uuid.UUID
	installmentID uuid.UUID
	quoteID       uuid.UUID
	patternID     uuid.UUID
}

type response struct {
	status int
	body   any
}

// contextKey is used to store TestContext in context.Context.
type contextKey struct{}

// GetTestContext retrieves the TestContext from context.
func GetTestContext(ctx context.Context) *TestContext {
	if tc, ok := ctx.Value(contextKey{}).(*TestContext); ok {
		return tc
	}
	return nil
}

// SetTestContext stores the TestContext in context.
func SetTestContext(ctx context.Context, tc *TestContext) context.Context {
	return context.WithValue(ctx, contextKey{}, tc)
}

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc, err := newTestContext()
		if err != nil {
			return ctx, err
		}
		return SetTestContext(ctx, tc), nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if tc := GetTestContext(ctx); tc != nil && tc.server != nil {
			tc.server.Close()
		}
		return ctx, nil
	})

	// Background steps
	ctx.Given(`^the API server is running$`, func(ctx context.Context) error {
		return GetTestContext(ctx).theAPIServerIsRunning()
	})
	ctx.Given(`^I am authenticated for tenant "([^"]*)"$`, func(ctx context.Context, name string) error {
		return GetTestContext(ctx).iAmAuthenticatedForTenant(name)
	})
	ctx.Given(`^the header is empty$`, func(ctx context.Context) error {
		return GetTestContext(ctx).theHeaderIsEmpty()
	})

	// Data setup steps
	ctx.Given(`^the tenant has a "([^"]*)" bank movement "([^"]*)" of "([^"]*)" on "([^"]*)"$`, func(ctx context.Context, direction, description, amount, date string) error {
		return GetTestContext(ctx).aBankMovement(direction, description, amount, date)
	})
	ctx.Given(`^the tenant has a pending payable to "([^"]*)" of "([^"]*)" due "([^"]*)"$`, func(ctx context.Context, supplier, amount, date string) error {
		return GetTestContext(ctx).aPendingPayable(supplier, amount, date)
	})
	ctx.Given(`^the tenant has an open installment from "([^"]*)" of "([^"]*)" due "([^"]*)"$`, func(ctx context.Context, client, amount, date string) error {
		return GetTestContext(ctx).anOpenInstallment(client, amount, date)
	})
	ctx.Given(`^the tenant has a quote "([^"]*)" for "([^"]*)" of "([^"]*)" awaiting payment$`, func(ctx context.Context, code, client, amount string) error {
		return GetTestContext(ctx).aQuoteAwaitingPayment(code, client, amount)
	})

	// Request steps
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)"$`, func(ctx context.Context, method, path string) error {
		return GetTestContext(ctx).iSendARequestTo(method, path)
	})
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, func(ctx context.Context, method, path string, body *godog.DocString) error {
		return GetTestContext(ctx).iSendARequestToWithBody(method, path, body)
	})

	// Response assertion steps
	ctx.Then(`^the response status should be (\d+)$`, func(ctx context.Context, status int) error {
		return GetTestContext(ctx).theResponseStatusShouldBe(status)
	})
	ctx.Then(`^the response field "([^"]*)" should be "([^"]*)"$`, func(ctx context.Context, field, value string) error {
		return GetTestContext(ctx).theResponseFieldShouldBe(field, value)
	})
	ctx.Then(`^the response field "([^"]*)" should exist$`, func(ctx context.Context, field string) error {
		return GetTestContext(ctx).theResponseFieldShouldExist(field)
	})
	ctx.Then(`^the response list "([^"]*)" should have (\d+) items$`, func(ctx context.Context, field string, quantity int) error {
		return GetTestContext(ctx).theResponseListShouldHaveItems(field, quantity)
	})

	// Database assertion steps
	ctx.Then(`^the db should contain (\d+) objects in the "([^"]*)" table$`, func(ctx context.Context, quantity int, table string) error {
		return GetTestContext(ctx).theDbShouldContainObjectsInTheTable(quantity, table)
	})
	ctx.Then(`^the db should contain (\d+) objects in "([^"]*)" with the values$`, func(ctx context.Context, quantity int, table string, content *godog.DocString) error {
		return GetTestContext(ctx).theDbShouldContainObjectsInWithTheValues(quantity, table, content)
	})
}

func newTestContext() (*TestContext, error) {
	cfg := config.Load()
	cfg.Server.Environment = "test"
	cfg.JWT.Secret = testJWTSecret

	tc := &TestContext{
		client:   &http.Client{Timeout: 10 * time.Second},
		headers:  make(map[string]string),
		timeMock: mock.NewTime(),
		cfg:      cfg,
		tenants:  make(map[string]uuid.UUID),
		db: mock.NewDb(map[string]any{
			"bank_movements":                &model.BankMovementModel{},
			"quotes":                        &model.QuoteModel{},
			"receivables":                   &model.ReceivableModel{},
			"receivable_installments":       &model.ReceivableInstallmentModel{},
			"payables":                      &model.PayableModel{},
			"reconciliation_patterns":       &model.ReconciliationPatternModel{},
			"reconciliation_pattern_events": &model.PatternEventModel{},
		}, tableOrder),
	}
	tc.timeMock.SetCurrentTime(testEpoch)

	if err := tc.db.ClearDB(); err != nil {
		return nil, err
	}
	if err := mock.ClearRedis(mock.NewRedis()); err != nil {
		return nil, err
	}
	return tc, nil
}

func (t *TestContext) theAPIServerIsRunning() error {
	redisClient := mock.NewRedis()
	healthController := controller.NewHealthController(
		func() bool { return t.db != nil && t.db.DbConn != nil },
		func() bool { return redisClient.Ping(context.Background()).Err() == nil },
	)

	injector, err := dependency.NewInjector(t.cfg, t.db.DbConn, redisClient, t.timeMock, healthController)
	if err != nil {
		return err
	}
	t.server = httptest.NewServer(injector.Router.Setup("test"))
	return nil
}

func (t *TestContext) iAmAuthenticatedForTenant(name string) error {
	tenantID, ok := t.tenants[name]
	if !ok {
		tenantID = uuid.New()
		t.tenants[name] = tenantID
	}
	t.tenantID = tenantID

	tokenService := adapters.NewTokenService(t.cfg.JWT.Secret, t.cfg.JWT.Issuer, t.cfg.JWT.AccessTokenExpiry)
	token, err := tokenService.GenerateAccessToken(context.Background(), uuid.New(), tenantID, name+"@example.com")
	if err != nil {
		return err
	}
	t.accessToken = token
	return nil
}

func (t *TestContext) theHeaderIsEmpty() error {
	t.headers = make(map[string]string)
	t.accessToken = "" // Clear access token to simulate unauthenticated request
	return nil
}

func (t *TestContext) currentTenant() (uuid.UUID, error) {
	if t.tenantID == uuid.Nil {
		return uuid.Nil, errors.New("no tenant selected; authenticate first")
	}
	return t.tenantID, nil
}

func parseDate(value string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", value, time.UTC)
}

func (t *TestContext) aBankMovement(direction, description, amount, date string) error {
	tenantID, err := t.currentTenant()
	if err != nil {
		return err
	}
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return err
	}
	movementDate, err := parseDate(date)
	if err != nil {
		return err
	}

	t.movementID = uuid.New()
	now := t.timeMock.Now()
	return t.db.DbConn.Create(&model.BankMovementModel{
		ID:           t.movementID,
		TenantID:     tenantID,
		Description:  description,
		Amount:       value,
		Direction:    direction,
		MovementDate: movementDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}).Error
}

func (t *TestContext) aPendingPayable(supplier, amount, date string) error {
	tenantID, err := t.currentTenant()
	if err != nil {
		return err
	}
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return err
	}
	dueDate, err := parseDate(date)
	if err != nil {
		return err
	}

	t.payableID = uuid.New()
	now := t.timeMock.Now()
	return t.db.DbConn.Create(&model.PayableModel{
		ID:           t.payableID,
		TenantID:     tenantID,
		SupplierName: supplier,
		Amount:       value,
		DueDate:      dueDate,
		Status:       string(entity.PayableStatusPending),
		CreatedAt:    now,
		UpdatedAt:    now,
	}).Error
}

func (t *TestContext) anOpenInstallment(client, amount, date string) error {
	tenantID, err := t.currentTenant()
	if err != nil {
		return err
	}
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return err
	}
	dueDate, err := parseDate(date)
	if err != nil {
		return err
	}

	now := t.timeMock.Now()
	receivable := &model.ReceivableModel{
		ID:         uuid.New(),
		TenantID:   tenantID,
		ClientName: client,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := t.db.DbConn.Create(receivable).Error; err != nil {
		return err
	}

	t.installmentID = uuid.New()
	return t.db.DbConn.Create(&model.ReceivableInstallmentModel{
		ID:           t.installmentID,
		TenantID:     tenantID,
		ReceivableID: receivable.ID,
		Number:       1,
		Amount:       value,
		PaidAmount:   decimal.Zero,
		DueDate:      dueDate,
		Status:       string(entity.InstallmentStatusPending),
		CreatedAt:    now,
		UpdatedAt:    now,
	}).Error
}

func (t *TestContext) aQuoteAwaitingPayment(code, client, amount string) error {
	tenantID, err := t.currentTenant()
	if err != nil {
		return err
	}
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return err
	}

	t.quoteID = uuid.New()
	now := t.timeMock.Now()
	return t.db.DbConn.Create(&model.QuoteModel{
		ID:          t.quoteID,
		TenantID:    tenantID,
		Code:        code,
		ClientName:  client,
		TotalAmount: value,
		PaidAmount:  decimal.Zero,
		Status:      string(entity.QuoteStatusAwaitingPayment),
		CreatedAt:   now,
		UpdatedAt:   now,
	}).Error
}

func (t *TestContext) iSendARequestTo(method, path string) error {
	return t.executeRequest(method, t.replacePlaceholders(path), nil)
}

func (t *TestContext) iSendARequestToWithBody(method, path string, body *godog.DocString) error {
	var payload []byte
	if body != nil && body.Content != "" {
		payload = []byte(t.replacePlaceholders(body.Content))
	}
	return t.executeRequest(method, t.replacePlaceholders(path), payload)
}

func (t *TestContext) replacePlaceholders(content string) string {
	content = strings.ReplaceAll(content, "{{movement_id}}", t.movementID.String())
	content = strings.ReplaceAll(content, "{{payable_id}}", t.payableID.String())
	content = strings.ReplaceAll(content, "{{installment_id}}", t.installmentID.String())
	content = strings.ReplaceAll(content, "{{quote_id}}", t.quoteID.String())
	content = strings.ReplaceAll(content, "{{pattern_id}}", t.patternID.String())
	return content
}

func (t *TestContext) executeRequest(method, path string, payload []byte) error {
	if t.server == nil {
		return errors.New("test server is not running")
	}

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, t.server.URL+path, bodyReader)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	if t.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+t.accessToken)
	}
	for key, value := range t.headers {
		req.Header.Set(key, value)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	t.response = &response{status: resp.StatusCode}

	var responseBody map[string]any
	if err := json.Unmarshal(bodyBytes, &responseBody); err != nil {
		t.response.body = string(bodyBytes)
		return nil
	}
	t.response.body = responseBody

	// Capture the learned pattern from confirmations
	if idStr, ok := getFieldValue(responseBody, "pattern.id").(string); ok {
		if id, err := uuid.Parse(idStr); err == nil {
			t.patternID = id
		}
	}

	return nil
}

func (t *TestContext) theResponseStatusShouldBe(expectedStatus int) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if t.response.status != expectedStatus {
		return fmt.Errorf("expected status %d, got %d (body: %v)", expectedStatus, t.response.status, t.response.body)
	}
	return nil
}

func (t *TestContext) theResponseFieldShouldBe(field, expectedValue string) error {
	value, err := t.responseField(field)
	if err != nil {
		return err
	}

	expectedValue = t.replacePlaceholders(expectedValue)
	actualValue := fmt.Sprintf("%v", value)
	if actualValue != expectedValue {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expectedValue, actualValue)
	}
	return nil
}

func (t *TestContext) theResponseFieldShouldExist(field string) error {
	_, err := t.responseField(field)
	return err
}

func (t *TestContext) theResponseListShouldHaveItems(field string, quantity int) error {
	value, err := t.responseField(field)
	if err != nil {
		return err
	}

	list, ok := value.([]any)
	if !ok {
		return fmt.Errorf("field '%s' is not a list: %v", field, value)
	}
	if len(list) != quantity {
		return fmt.Errorf("field '%s' expected %d items, got %d: %v", field, quantity, len(list), list)
	}
	return nil
}

func (t *TestContext) responseField(field string) (any, error) {
	if t.response == nil {
		return nil, errors.New("no response received")
	}

	body, ok := t.response.body.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("response is not a JSON object: %v", t.response.body)
	}

	value := getFieldValue(body, field)
	if value == nil {
		return nil, fmt.Errorf("field '%s' not found in response: %v", field, body)
	}
	return value, nil
}

func (t *TestContext) theDbShouldContainObjectsInTheTable(quantity int, table string) error {
	return t.countRows(quantity, table, nil)
}

func (t *TestContext) theDbShouldContainObjectsInWithTheValues(quantity int, table string, content *godog.DocString) error {
	var criteria map[string]any
	if err := json.Unmarshal([]byte(t.replacePlaceholders(content.Content)), &criteria); err != nil {
		return err
	}
	return t.countRows(quantity, table, criteria)
}

func (t *TestContext) countRows(quantity int, table string, criteria map[string]any) error {
	tableModel, ok := t.db.GetModel(table)
	if !ok {
		return fmt.Errorf("table '%s' not found in models", table)
	}

	entityType := reflect.TypeOf(tableModel).Elem()
	entitySlice := reflect.MakeSlice(reflect.SliceOf(entityType), 0, 0)
	entitySlicePtr := reflect.New(entitySlice.Type())
	entitySlicePtr.Elem().Set(entitySlice)

	query := t.db.DbConn.Unscoped()
	for key, value := range criteria {
		query = query.Where(fmt.Sprintf("%s = ?", key), value)
	}

	result := query.Find(entitySlicePtr.Interface())
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}

	count := entitySlicePtr.Elem().Len()
	if count != quantity {
		return fmt.Errorf("expected %d objects in '%s' with criteria %v, got %d", quantity, table, criteria, count)
	}
	return nil
}

func getFieldValue(object any, dotSeparatedField string) any {
	if object == nil {
		return nil
	}

	var objectMap map[string]any
	switch v := object.(type) {
	case map[string]any:
		objectMap = v
	default:
		objectJSON, _ := json.Marshal(object)
		if err := json.Unmarshal(objectJSON, &objectMap); err != nil {
			return nil
		}
	}

	fields := strings.Split(dotSeparatedField, ".")
	var field any = objectMap

	for _, currentField := range fields {
		if field == nil {
			return nil
		}

		if i, err := strconv.Atoi(currentField); err == nil {
			if arr, ok := field.([]any); ok && i < len(arr) {
				field = arr[i]
			} else {
				return nil
			}
		} else {
			if m, ok := field.(map[string]any); ok {
				field = m[currentField]
			} else {
				return nil
			}
		}
	}

	return field
}
