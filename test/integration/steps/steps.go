//go:build integration

package steps

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/backoffice/statement/internal/integration/adapters"
	"github.com/backoffice/statement/internal/integration/persistence/model"
)

func (t *testContext) iAmAuthenticated() error {
	now := time.Now()
	claims := adapters.CustomClaims{
		UserID:    uuid.NewString(),
		Email:     "controller@backoffice.test",
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	if err != nil {
		return err
	}
	t.accessToken = token
	return nil
}

func (t *testContext) theHeaderContainsTheKeyWith(key, value string) error {
	t.headers[key] = value
	return nil
}

func parseDate(value string) (*time.Time, error) {
	date, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return nil, err
	}
	return &date, nil
}

func (t *testContext) anApprovedProposalWithFee(fee, startDate string) error {
	date, err := parseDate(startDate)
	if err != nil {
		return err
	}
	return t.db.DbConn.Create(&model.ProposalModel{
		ID:        uuid.New(),
		Client:    "Client " + fee,
		Status:    model.ProposalStatusApproved,
		Fee:       &fee,
		StartDate: date,
	}).Error
}

func (t *testContext) anExitProposalWithLoss(loss, baselineDate string) error {
	date, err := parseDate(baselineDate)
	if err != nil {
		return err
	}
	return t.db.DbConn.Create(&model.ExitProposalModel{
		ID:           uuid.New(),
		Client:       "Client " + loss,
		LossValue:    &loss,
		BaselineDate: date,
	}).Error
}

func (t *testContext) aCostEntry(costCenter, amount string) error {
	return t.db.DbConn.Create(&model.CostEntryModel{
		ID:         uuid.New(),
		CostCenter: &costCenter,
		Amount:     &amount,
	}).Error
}

func (t *testContext) iSendARequestTo(method, path string) error {
	return t.executeRequest(method, path, nil)
}

func (t *testContext) iSendARequestToWithBody(method, path string, body *godog.DocString) error {
	return t.executeRequest(method, path, []byte(body.Content))
}

func (t *testContext) iConfirmThePendingEdit(credential string) error {
	if t.pendingEdit == "" {
		return fmt.Errorf("no pending edit was requested")
	}
	payload, err := json.Marshal(map[string]string{"credential": credential})
	if err != nil {
		return err
	}
	return t.executeRequest(http.MethodPost, "/api/v1/statement/pending-edit/"+t.pendingEdit+"/confirm", payload)
}

func (t *testContext) iCancelThePendingEdit() error {
	if t.pendingEdit == "" {
		return fmt.Errorf("no pending edit was requested")
	}
	return t.executeRequest(http.MethodDelete, "/api/v1/statement/pending-edit/"+t.pendingEdit, nil)
}

func (t *testContext) iCaptureASnapshot() error {
	if err := t.executeRequest(http.MethodPost, "/api/v1/statement/history", nil); err != nil {
		return err
	}
	id, ok := getFieldValue(t.response.body, "snapshot.id").(string)
	if !ok {
		return fmt.Errorf("no snapshot id in response: %s", string(t.response.raw))
	}
	t.snapshotID = id
	return nil
}

func (t *testContext) iRestoreTheCapturedSnapshot() error {
	if t.snapshotID == "" {
		return fmt.Errorf("no snapshot was captured")
	}
	return t.executeRequest(http.MethodPost, "/api/v1/statement/history/"+t.snapshotID+"/restore", nil)
}

func (t *testContext) executeRequest(method, path string, payload []byte) error {
	req, err := http.NewRequest(method, t.server.URL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if t.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+t.accessToken)
	}
	// Explicit headers win over the scenario token.
	for key, value := range t.headers {
		req.Header.Set(key, value)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	var body any
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &body)
	}
	t.response = &response{status: resp.StatusCode, body: body, raw: raw}

	if id, ok := getFieldValue(body, "pendingEdit.id").(string); ok {
		t.pendingEdit = id
	}
	return nil
}

func (t *testContext) theResponseStatusShouldBe(expectedStatus int) error {
	if err := t.requireResponse(); err != nil {
		return err
	}
	if t.response.status != expectedStatus {
		return fmt.Errorf("expected status %d, got %d. Body: %s", expectedStatus, t.response.status, string(t.response.raw))
	}
	return nil
}

func (t *testContext) theResponseShouldBeJSON() error {
	if err := t.requireResponse(); err != nil {
		return err
	}
	if !json.Valid(t.response.raw) {
		return fmt.Errorf("response is not valid JSON: %s", string(t.response.raw))
	}
	return nil
}

func (t *testContext) theResponseShouldContain(expected string) error {
	if err := t.requireResponse(); err != nil {
		return err
	}
	if !strings.Contains(string(t.response.raw), expected) {
		return fmt.Errorf("response does not contain '%s'. Body: %s", expected, string(t.response.raw))
	}
	return nil
}

func (t *testContext) theResponseFieldShouldBe(field, expected string) error {
	if err := t.requireResponse(); err != nil {
		return err
	}
	value := getFieldValue(t.response.body, field)
	if value == nil {
		return fmt.Errorf("field '%s' not found in response: %s", field, string(t.response.raw))
	}
	if actual := fmt.Sprintf("%v", value); actual != expected {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expected, actual)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldExist(field string) error {
	if err := t.requireResponse(); err != nil {
		return err
	}
	if getFieldValue(t.response.body, field) == nil {
		return fmt.Errorf("field '%s' not found in response: %s", field, string(t.response.raw))
	}
	return nil
}

// theStatementTotalShouldBe reads the live statement and compares a total numerically.
func (t *testContext) theStatementTotalShouldBe(total, expected string) error {
	if err := t.executeRequest(http.MethodGet, "/api/v1/statement", nil); err != nil {
		return err
	}
	return compareDecimal(getFieldValue(t.response.body, "totals."+total), expected, "total "+total)
}

func (t *testContext) lineShouldHaveValue(lineID int, expected string) error {
	if err := t.executeRequest(http.MethodGet, "/api/v1/statement", nil); err != nil {
		return err
	}
	return compareDecimal(getFieldValue(t.response.body, "lines."+strconv.Itoa(lineID-1)+".value"), expected, fmt.Sprintf("line %d", lineID))
}

func compareDecimal(value any, expected, what string) error {
	raw, ok := value.(string)
	if !ok {
		return fmt.Errorf("%s not found", what)
	}
	actual, err := decimal.NewFromString(raw)
	if err != nil {
		return err
	}
	want, err := decimal.NewFromString(expected)
	if err != nil {
		return err
	}
	if !actual.Equal(want) {
		return fmt.Errorf("%s expected %s, got %s", what, want, actual)
	}
	return nil
}

func (t *testContext) theDbShouldContainObjectsInTheTable(quantity int, table string) error {
	count, err := t.db.Count(table)
	if err != nil {
		return err
	}
	if count != int64(quantity) {
		return fmt.Errorf("expected %d objects in %s, got %d", quantity, table, count)
	}
	return nil
}

func (t *testContext) theStateStoreShouldContainTheKey(key string) error {
	if !t.redis.Server.Exists(stateKeyPrefix + key) {
		return fmt.Errorf("expected key %s in the state store, found %v", key, t.redis.Server.Keys())
	}
	return nil
}

// getFieldValue walks a decoded JSON document along a dot-separated path.
// Numeric segments index into arrays.
func getFieldValue(object any, dotSeparatedField string) any {
	current := object
	for _, part := range strings.Split(dotSeparatedField, ".") {
		switch node := current.(type) {
		case map[string]any:
			current = node[part]
		case []any:
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil
			}
			current = node[idx]
		default:
			return nil
		}
	}
	return current
}
