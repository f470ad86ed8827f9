package handler

import (
	"Scribe/internal/api/config"
	"Scribe/internal/api/dto"
	"Scribe/internal/pkg/response"
	"Scribe/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
)

// SiteHandler 站点信息、标签、日历、统计与全局设置
type SiteHandler struct {
	blog       config.BlogConfig
	tagSvc     service.TagService
	statsSvc   service.StatisticsService
	settingSvc service.SettingService
}

func NewSiteHandler(
	blog config.BlogConfig,
	tagSvc service.TagService,
	statsSvc service.StatisticsService,
	settingSvc service.SettingService,
) *SiteHandler {
	return &SiteHandler{
		blog:       blog,
		tagSvc:     tagSvc,
		statsSvc:   statsSvc,
		settingSvc: settingSvc,
	}
}

func (s *SiteHandler) Init(c *gin.Context) {
	res := &dto.InitDTO{}
	_ = copier.Copy(res, &s.blog)
	response.Success(c, res)
}

func (s *SiteHandler) Tags(c *gin.Context) {
	tags, err := s.tagSvc.GetTagWeights(c.Request.Context(), c.Query("query"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tags)
}

// Calendar year 缺省时为当前年份
func (s *SiteHandler) Calendar(c *gin.Context) {
	year := 0
	if raw := c.Query("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 1 {
			response.Error(c, service.ErrParamInvalid)
			return
		}
		year = y
	}

	cal, err := s.statsSvc.GetCalendar(c.Request.Context(), year)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, cal)
}

func (s *SiteHandler) MyStatistics(c *gin.Context) {
	stats, err := s.statsSvc.GetMyStatistics(c.Request.Context(), c.GetUint64("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}

func (s *SiteHandler) AllStatistics(c *gin.Context) {
	stats, err := s.statsSvc.GetAllStatistics(c.Request.Context(), c.GetUint64("user_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}

func (s *SiteHandler) GetSettings(c *gin.Context) {
	settings, err := s.settingSvc.GetSettings(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, settings)
}

func (s *SiteHandler) UpdateSettings(c *gin.Context) {
	var req dto.SettingsDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := s.settingSvc.UpdateSettings(c.Request.Context(), &req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
