package client

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"resty.dev/v3"
)

// Response 服务端统一响应
type Response struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Code    string          `json:"code,omitempty"`
	Data    json.RawMessage `json:"data"`
}

// APIError 服务端返回的业务错误
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("请求失败(%d %s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("请求失败(%d): %s", e.Status, e.Message)
}

// Client 设置中心命令行客户端
type Client struct {
	client *resty.Client
}

// New 创建客户端
func New(baseURL string) *Client {
	client := resty.New()
	client.SetBaseURL(baseURL + "/api")
	client.SetTimeout(30 * time.Second)
	client.SetHeader("Content-Type", "application/json")

	return &Client{client: client}
}

// Close 释放连接
func (c *Client) Close() error {
	return c.client.Close()
}

// SetToken 设置访问令牌
func (c *Client) SetToken(token string) {
	c.client.SetAuthToken(token)
}

// Login 登录并保存令牌
func (c *Client) Login(username, password string) error {
	var data struct {
		Token string `json:"token"`
	}
	err := c.do(c.client.R().SetBody(map[string]string{
		"username": username,
		"password": password,
	}), "POST", "/auth/login", &data)
	if err != nil {
		return err
	}
	if data.Token == "" {
		return fmt.Errorf("登录响应缺少令牌")
	}
	c.SetToken(data.Token)
	return nil
}

// ValueDetail 设置值详情
type ValueDetail struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Value       any    `json:"value"`
	ValueType   string `json:"value_type"`
	Description string `json:"description"`
}

// GetValue 获取启用设置的值
func (c *Client) GetValue(key string) (*ValueDetail, error) {
	var detail ValueDetail
	if err := c.do(c.client.R(), "GET", "/settings/value/"+url.PathEscape(key), &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// SetValue 更新设置值
func (c *Client) SetValue(key string, value any, validate bool) error {
	return c.do(c.client.R().SetBody(map[string]any{
		"value":    value,
		"validate": validate,
	}), "PUT", "/settings/value/"+url.PathEscape(key), nil)
}

// Dictionary 获取启用设置的键值字典
func (c *Client) Dictionary() (map[string]any, error) {
	var data struct {
		Settings map[string]any `json:"settings"`
	}
	if err := c.do(c.client.R(), "GET", "/settings/dictionary", &data); err != nil {
		return nil, err
	}
	return data.Settings, nil
}

// ResetDefaults 全部设置恢复默认值，返回处理数量
func (c *Client) ResetDefaults() (int, error) {
	var data struct {
		ResetCount int `json:"reset_count"`
	}
	if err := c.do(c.client.R(), "POST", "/settings/reset-defaults", &data); err != nil {
		return 0, err
	}
	return data.ResetCount, nil
}

// FlushCache 清空服务端设置缓存
func (c *Client) FlushCache() error {
	return c.do(c.client.R(), "POST", "/settings/cache/flush", nil)
}

func (c *Client) do(req *resty.Request, method, path string, out any) error {
	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("请求 %s 失败: %w", path, err)
	}

	var body Response
	if err := json.Unmarshal([]byte(resp.String()), &body); err != nil {
		return fmt.Errorf("解析响应失败，状态码: %d, 响应: %s", resp.StatusCode(), resp.String())
	}
	if resp.IsError() || !body.Success {
		return &APIError{Status: resp.StatusCode(), Code: body.Code, Message: body.Message}
	}

	if out == nil || len(body.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(body.Data, out); err != nil {
		return fmt.Errorf("解析响应数据失败: %w", err)
	}
	return nil
}
