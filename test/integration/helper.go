//go:build integration

// Package integration 通过 HTTP 测试运行中的服务
//
//	go run ./cmd/api
//	go test -tags integration ./test/integration/...
//
// 设置 SWEETSHOP_BASE_URL 可以测试其他部署
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const timeout = 10 * time.Second

var client = &http.Client{Timeout: timeout}

// BaseURL 被测 API 的根地址
func BaseURL() string {
	if u := os.Getenv("SWEETSHOP_BASE_URL"); u != "" {
		return u
	}
	return "http://localhost:8080/api/v1"
}

// Response 统一响应结构
type Response struct {
	Status  int             `json:"-"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type SweetData struct {
	ID       uint            `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
}

type OrderData struct {
	ID     string          `json:"id"`
	Token  int64           `json:"token"`
	Status string          `json:"status"`
	Total  decimal.Decimal `json:"total"`
	Items  []struct {
		SweetID  uint            `json:"sweetId"`
		Name     string          `json:"name"`
		Price    decimal.Decimal `json:"price"`
		Quantity decimal.Decimal `json:"quantity"`
	} `json:"items"`
}

// Do 发送 JSON 请求并解析响应。可在多个 goroutine 中调用；
// 失败通过 t.Errorf 报告，由调用方决定是否停止。
func Do(t *testing.T, method, path string, body interface{}) *Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, BaseURL()+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Errorf("is the server running at %s? %v", BaseURL(), err)
		return &Response{}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Errorf("read body: %v", err)
		return &Response{Status: resp.StatusCode}
	}

	var out Response
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Errorf("decode body %q: %v", raw, err)
	}
	out.Status = resp.StatusCode
	return &out
}

// Decode 把 data 解析到 v
func Decode(t *testing.T, resp *Response, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(resp.Data, v), "data: %s", resp.Data)
}

var seq atomic.Int64

// UniqueToken 返回之前运行没用过的 token
func UniqueToken() int64 {
	return time.Now().UnixNano()/1000 + seq.Add(1)
}

// UniqueName 给 prefix 加后缀，重复运行不会撞上名称唯一约束
func UniqueName(prefix string) string {
	return fmt.Sprintf("%s %d", prefix, UniqueToken())
}

// AddSweet 创建商品并返回
func AddSweet(t *testing.T, name, price, quantity string) SweetData {
	t.Helper()

	resp := Do(t, http.MethodPost, "/sweets", map[string]interface{}{
		"name":     UniqueName(name),
		"category": "Milk-Based",
		"price":    json.Number(price),
		"quantity": json.Number(quantity),
	})
	require.Equal(t, http.StatusCreated, resp.Status, resp.Message)

	var s SweetData
	Decode(t, resp, &s)
	return s
}

// StockOf 读取商品当前库存
func StockOf(t *testing.T, id uint) decimal.Decimal {
	t.Helper()

	resp := Do(t, http.MethodGet, fmt.Sprintf("/sweets/%d", id), nil)
	require.Equal(t, http.StatusOK, resp.Status, resp.Message)

	var s SweetData
	Decode(t, resp, &s)
	return s.Quantity
}
