package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"storefront/internal/domain/model"

	"github.com/shopspring/decimal"
)

// サーバーが返した4xx/5xx
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

func IsNotFound(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Status == http.StatusNotFound
}

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) SetToken(token string) {
	c.token = token
}

type LoginResponse struct {
	User  model.User `json:"user"`
	Token string     `json:"token"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type AddToCartResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Cart    model.Cart `json:"cart"`
}

type ProductList struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

type OrderItem struct {
	Product  string `json:"product"`
	Quantity int64  `json:"quantity"`
}

type PlaceOrderRequest struct {
	Items           []OrderItem           `json:"items"`
	ShippingAddress model.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                `json:"paymentMethod"`
	ShippingPrice   decimal.Decimal       `json:"shippingPrice"`
	TaxPrice        decimal.Decimal       `json:"taxPrice"`
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (model.User, error) {
	var out model.User
	err := c.do(ctx, http.MethodPost, "/api/users/register", req, &out)
	return out, err
}

func (c *Client) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	var out LoginResponse
	err := c.do(ctx, http.MethodPost, "/api/users/login", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	return out, err
}

func (c *Client) Me(ctx context.Context) (model.User, error) {
	var out model.User
	err := c.do(ctx, http.MethodGet, "/api/users/me", nil, &out)
	return out, err
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/users/logout", nil, nil)
}

func (c *Client) GetCart(ctx context.Context, userID string) (model.Cart, error) {
	var out model.Cart
	err := c.do(ctx, http.MethodGet, "/api/cart/"+url.PathEscape(userID), nil, &out)
	return out, err
}

func (c *Client) AddToCart(ctx context.Context, userID, productID string, quantity int64) (model.Cart, error) {
	var out AddToCartResponse
	err := c.do(ctx, http.MethodPost, "/api/cart", map[string]any{
		"userId":    userID,
		"productId": productID,
		"quantity":  quantity,
	}, &out)
	return out.Cart, err
}

func (c *Client) ListProducts(ctx context.Context, page, limit int, q string) (ProductList, error) {
	v := url.Values{}
	v.Set("page", strconv.Itoa(page))
	v.Set("limit", strconv.Itoa(limit))
	if q != "" {
		v.Set("q", q)
	}
	var out ProductList
	err := c.do(ctx, http.MethodGet, "/api/products?"+v.Encode(), nil, &out)
	return out, err
}

func (c *Client) GetProduct(ctx context.Context, id string) (model.Product, error) {
	var out model.Product
	err := c.do(ctx, http.MethodGet, "/api/products/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (model.Order, error) {
	var out model.Order
	err := c.do(ctx, http.MethodPost, "/api/orders", req, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var e struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		_ = json.Unmarshal(data, &e)
		msg := e.Error
		if msg == "" {
			msg = e.Message
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &Error{Status: resp.StatusCode, Message: msg}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
