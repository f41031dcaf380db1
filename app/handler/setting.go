package handler

import (
	"fmt"
	"net/http"

	"setting-center/app/apperr"
	"setting-center/app/model"
	"setting-center/app/repository"
	"setting-center/app/service"
	"setting-center/app/valuetype"

	"github.com/gin-gonic/gin"
)

// SettingHandler 系统设置处理器
type SettingHandler struct {
	svc *service.SettingService
}

// NewSettingHandler 创建系统设置处理器
func NewSettingHandler(svc *service.SettingService) *SettingHandler {
	return &SettingHandler{svc: svc}
}

// Register 注册设置路由
func (h *SettingHandler) Register(r gin.IRouter) {
	settings := r.Group("/settings")
	{
		settings.GET("/list", h.List)
		settings.GET("/grouped", h.Grouped)
		settings.GET("/dictionary", h.Dictionary)
		settings.POST("", h.Create)
		settings.GET("/:id", h.Get)
		settings.PUT("/:id", h.Update)
		settings.PATCH("/:id", h.Update)
		settings.DELETE("/:id", h.Delete)

		settings.GET("/by-key/:key", h.GetByKey)
		settings.DELETE("/by-key/:key", h.DeleteByKey)
		settings.GET("/value/:key", h.GetValue)
		settings.PUT("/value/:key", h.SetValue)
		settings.POST("/validate/:key", h.Validate)

		settings.POST("/batch-update", h.BatchUpdate)
		settings.POST("/reset-defaults", h.ResetDefaults)
		settings.POST("/upload", h.Upload)
		settings.POST("/cache/flush", h.FlushCache)

		settings.GET("/meta/value-types", h.ValueTypes)
		settings.GET("/meta/categories", h.Categories)
	}
}

func badRequest(c *gin.Context, err error) {
	Fail(c, apperr.Validation("请求参数错误: "+err.Error()))
}

// ListQuery 列表查询参数
type ListQuery struct {
	Page       int    `form:"page,default=1" binding:"min=1"`
	PageSize   int    `form:"page_size,default=20" binding:"min=1,max=100"`
	ActiveOnly bool   `form:"active_only"`
	Category   string `form:"category"`
}

// List 分页获取设置列表
func (h *SettingHandler) List(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	page, err := h.svc.Paginate(c.Request.Context(), q.Page, q.PageSize, repository.SettingFilter{
		ActiveOnly: q.ActiveOnly,
		Category:   q.Category,
	})
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, http.StatusOK, page, "")
}

// Get 获取设置详情
func (h *SettingHandler) Get(c *gin.Context) {
	view, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, http.StatusOK, view, "")
}

// Create 创建设置
func (h *SettingHandler) Create(c *gin.Context) {
	var in service.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	setting, err := h.svc.Create(c.Request.Context(), operator(c), in)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, http.StatusCreated, service.NewSettingView(setting, true), "设置创建成功")
}

// Update 更新设置元信息和值，PUT 与 PATCH 都只修改请求中出现的字段
func (h *SettingHandler) Update(c *gin.Context) {
	var in service.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	setting, err := h.svc.UpdateMetadata(c.Request.Context(), operator(c), c.Param("id"), in)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, http.StatusOK, service.NewSettingView(setting, true), "设置更新成功")
}

// Delete 按ID删除设置
func (h *SettingHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), operator(c), c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	Success(c, http.StatusOK, nil, "设置已删除")
}

// Grouped 按分类分组获取设置
func (h *SettingHandler) Grouped(c *gin.Context) {
	groups, err := h.svc.Grouped(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, http.StatusOK, groups, "")
}

// GetByKey 按键名获取设置
func (h *SettingHandler) GetByKey(c *gin.Context) {
	view, err := h.svc.GetByKey(c.Request.Context(), c.Param("key"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, http.StatusOK, view, "")
}

// DeleteByKey 按键名删除设置
func (h *SettingHandler) DeleteByKey(c *gin.Context) {
	if err := h.svc.DeleteByKey(c.Request.Context(), operator(c), c.Param("key")); err != nil {
		Fail(c, err)
		return
	}
	Success(c, http.StatusOK, nil, "设置已删除")
}

// GetValue 获取设置值详情
func (h *SettingHandler) GetValue(c *gin.Context) {
	detail, err := h.svc.ValueDetail(c.Request.Context(), c.Param("key"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, http.StatusOK, detail, "")
}

// ValueRequest 更新设置值请求
type ValueRequest struct {
	Value    any   `json:"value"`
	Validate *bool `json:"validate"`
}

// SetValue 更新设置值
func (h *SettingHandler) SetValue(c *gin.Context) {
	var req ValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	validate := req.Validate == nil || *req.Validate
	view, err := h.svc.SetValue(c.Request.Context(), operator(c), c.Param("key"), req.Value, validate)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, http.StatusOK, view, "设置值已更新")
}

// BatchUpdateRequest 批量更新请求
type BatchUpdateRequest struct {
	Settings []service.BatchItem `json:"settings" binding:"required"`
}

// BatchUpdate 批量更新设置值
func (h *SettingHandler) BatchUpdate(c *gin.Context) {
	var req BatchUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.svc.BatchUpdate(c.Request.Context(), operator(c), req.Settings)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, http.StatusOK, result, "")
}

// Validate 校验设置值
func (h *SettingHandler) Validate(c *gin.Context) {
	value, ok := c.GetQuery("value")
	if !ok {
		Fail(c, apperr.Validation("缺少参数: value"))
		return
	}

	valid, msg, err := h.svc.Validate(c.Request.Context(), c.Param("key"), value)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, http.StatusOK, gin.H{"valid": valid, "message": msg}, "")
}

// Dictionary 获取启用设置的键值字典
func (h *SettingHandler) Dictionary(c *gin.Context) {
	dict, err := h.svc.Dictionary(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, http.StatusOK, gin.H{"settings": dict, "count": len(dict)}, "")
}

// ResetDefaults 重置为默认值
func (h *SettingHandler) ResetDefaults(c *gin.Context) {
	count, err := h.svc.ResetToDefaults(c.Request.Context(), operator(c))
	if _, ok := apperr.As(err); ok {
		Fail(c, err)
		return
	}
	if err != nil {
		// 部分设置已重置，返回已处理数量
		FailWithData(c, err, gin.H{"reset_count": count})
		return
	}
	Success(c, http.StatusOK, gin.H{"reset_count": count}, fmt.Sprintf("已重置 %d 项设置", count))
}

// Upload 上传设置相关资源
func (h *SettingHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		Fail(c, apperr.Validation("无效的上传文件"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		Fail(c, err)
		return
	}
	defer f.Close()

	result, err := h.svc.UploadAsset(c.Request.Context(), operator(c), service.UploadFile{
		Name:        fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
		Reader:      f,
	})
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, http.StatusOK, result, "上传成功")
}

// FlushCache 清空设置缓存
func (h *SettingHandler) FlushCache(c *gin.Context) {
	if err := h.svc.FlushCache(c.Request.Context(), operator(c)); err != nil {
		Fail(c, err)
		return
	}
	Success(c, http.StatusOK, nil, "缓存已清空")
}

// EnumResponse 枚举项
type EnumResponse struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// ValueTypes 获取支持的值类型
func (h *SettingHandler) ValueTypes(c *gin.Context) {
	types := valuetype.Types()
	out := make([]EnumResponse, 0, len(types))
	for _, t := range types {
		out = append(out, EnumResponse{Key: string(t), Name: t.Label()})
	}
	Success(c, http.StatusOK, out, "")
}

// Categories 获取设置分类
func (h *SettingHandler) Categories(c *gin.Context) {
	categories := model.Categories()
	out := make([]EnumResponse, 0, len(categories))
	for _, cat := range categories {
		out = append(out, EnumResponse{Key: string(cat), Name: cat.Label()})
	}
	Success(c, http.StatusOK, out, "")
}
