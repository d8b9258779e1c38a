package router_test

import (
	"os"
	"strconv"
	"testing"

	"github.com/shopspring/decimal"
)

// 与 cmd/api 的 main 保持一致：金额和数量以 JSON 数字输出
func TestMain(m *testing.M) {
	decimal.MarshalJSONWithoutQuotes = true
	os.Exit(m.Run())
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
