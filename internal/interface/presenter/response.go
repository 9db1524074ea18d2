package presenter

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Response は統一レスポンス構造を定義します
type Response struct {
	Data interface{} `json:"data"`
	Meta interface{} `json:"meta"`
}

// Meta はメタ情報を定義します
type Meta struct {
	Message string `json:"message,omitempty"`
}

// OK は成功レスポンスを返します
func OK(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{
		Data: data,
		Meta: nil,
	})
}

// OKWithMeta はメタ情報付き成功レスポンスを返します
func OKWithMeta(c echo.Context, data interface{}, meta interface{}) error {
	return c.JSON(http.StatusOK, Response{
		Data: data,
		Meta: meta,
	})
}

// Created は作成成功レスポンスを返します
func Created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, Response{
		Data: data,
		Meta: nil,
	})
}

// NoContent はコンテンツなしレスポンスを返します
func NoContent(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

// Deleted は削除成功レスポンスを返します
func Deleted(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, Response{
		Data: nil,
		Meta: Meta{Message: message},
	})
}
