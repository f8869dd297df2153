package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"techshop/internal/storage"
)

const fullSchema = `
CREATE TABLE PRODUCT (
    ProductID    INTEGER PRIMARY KEY AUTOINCREMENT,
    Name         TEXT NOT NULL,
    Description  TEXT,
    Price        REAL NOT NULL DEFAULT 0,
    Stock        INTEGER NOT NULL DEFAULT 0,
    Category     TEXT,
    Image        TEXT,
    Barcode      TEXT,
    SerialNumber TEXT,
    Manufacturer TEXT,
    AdminID      INTEGER NOT NULL DEFAULT 1
);
CREATE TABLE CART (
    CartID      INTEGER PRIMARY KEY AUTOINCREMENT,
    CustomerID  INTEGER NOT NULL UNIQUE,
    TotalAmount REAL NOT NULL DEFAULT 0
);
CREATE TABLE CART_ITEM (
    CartItemID INTEGER PRIMARY KEY AUTOINCREMENT,
    CartID     INTEGER NOT NULL,
    ProductID  INTEGER NOT NULL,
    Quantity   INTEGER NOT NULL DEFAULT 1
);
CREATE TABLE ORDERS (
    OrderID     INTEGER PRIMARY KEY AUTOINCREMENT,
    Date        TEXT NOT NULL,
    CustomerID  INTEGER NOT NULL,
    TotalAmount REAL NOT NULL DEFAULT 0,
    Status      TEXT NOT NULL DEFAULT 'Processing'
);
CREATE TABLE ORDERS_ITEM (
    OrderItemID INTEGER PRIMARY KEY AUTOINCREMENT,
    OrderID     INTEGER NOT NULL,
    ProductID   INTEGER NOT NULL,
    Quantity    INTEGER NOT NULL DEFAULT 1
);
CREATE TABLE AUTHENTICATOR (
    AuthID       INTEGER PRIMARY KEY AUTOINCREMENT,
    UserName     TEXT NOT NULL UNIQUE,
    PasswordHash TEXT NOT NULL,
    CustomerID   INTEGER,
    AdminID      INTEGER
)`

// legacySchema lacks the optional Category/Image columns.
const legacySchema = `
CREATE TABLE PRODUCT (
    ProductID    INTEGER PRIMARY KEY AUTOINCREMENT,
    Name         TEXT NOT NULL,
    Description  TEXT,
    Price        REAL NOT NULL DEFAULT 0,
    Stock        INTEGER NOT NULL DEFAULT 0,
    Barcode      TEXT,
    SerialNumber TEXT,
    Manufacturer TEXT,
    AdminID      INTEGER NOT NULL DEFAULT 1
);
CREATE TABLE CART_ITEM (
    CartItemID INTEGER PRIMARY KEY AUTOINCREMENT,
    CartID     INTEGER NOT NULL,
    ProductID  INTEGER NOT NULL,
    Quantity   INTEGER NOT NULL DEFAULT 1
);
CREATE TABLE ORDERS_ITEM (
    OrderItemID INTEGER PRIMARY KEY AUTOINCREMENT,
    OrderID     INTEGER NOT NULL,
    ProductID   INTEGER NOT NULL,
    Quantity    INTEGER NOT NULL DEFAULT 1
)`

func newTestDB(t *testing.T, schema string) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// A pooled second connection would see a different in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, storage.ExecScript(db, schema))
	return db
}

func newProductHandler(t *testing.T, schema string) (*ProductHandler, *gorm.DB) {
	t.Helper()
	db := newTestDB(t, schema)
	return &ProductHandler{DB: db, Caps: storage.DetectCapabilities(db)}, db
}

func doFormRequest(t *testing.T, e *echo.Echo, path string, form url.Values) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	return rec, e.NewContext(req, rec)
}

func doJSONRequest(t *testing.T, e *echo.Echo, method, path string, body any) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return rec, e.NewContext(req, rec)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}
