package presenter

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Response は統一レスポンス構造を定義します
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// OK は成功レスポンスを返します
func OK(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
	})
}

// OKWithData はデータ付き成功レスポンスを返します
func OKWithData(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created は作成完了レスポンスを返します
func Created(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusCreated, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}
