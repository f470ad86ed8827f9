package service

import (
	"Scribe/internal/api/dto"
	"Scribe/internal/model"
	"Scribe/internal/pkg/consts"
	"Scribe/internal/pkg/kafka"
	"Scribe/internal/pkg/minio"
	"Scribe/internal/pkg/notify"
	"Scribe/internal/pkg/util"
	"Scribe/internal/repository"
	"context"
	log "log/slog"
	"strings"
	"time"
)

const (
	DecisionAccept  = "accept"
	DecisionDecline = "decline"
)

// Notifier 异步通知能力，调用方不等待投递结果
type Notifier interface {
	Notify(ctx context.Context, n notify.Notification)
}

// PostEventPublisher 帖子生命周期事件的出站通道
type PostEventPublisher interface {
	PublishPostEvent(ctx context.Context, event *kafka.PostEvent)
}

type PostService interface {
	CreatePost(ctx context.Context, userID uint64, req *dto.PostRequestDTO) (*dto.PostSavedDTO, error)
	UpdatePost(ctx context.Context, userID uint64, postID uint64, req *dto.PostRequestDTO) (*dto.PostSavedDTO, error)
	ModeratePost(ctx context.Context, moderatorID uint64, postID uint64, decision string) error
	ViewPost(ctx context.Context, viewerID uint64, postID uint64) (*dto.PostDetailDTO, error)
	VotePost(ctx context.Context, userID uint64, postID uint64, value int8) (bool, error)

	ListPosts(ctx context.Context, mode string, offset, limit int) (*dto.PostListDTO, error)
	SearchPosts(ctx context.Context, query string, offset, limit int) (*dto.PostListDTO, error)
	ListPostsByDate(ctx context.Context, date string, offset, limit int) (*dto.PostListDTO, error)
	ListPostsByTag(ctx context.Context, tag string, offset, limit int) (*dto.PostListDTO, error)
	ListMyPosts(ctx context.Context, userID uint64, status string, offset, limit int) (*dto.PostListDTO, error)
	ListModerationPosts(ctx context.Context, moderatorID uint64, status string, offset, limit int) (*dto.PostListDTO, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
}

type postServiceImpl struct {
	postRepo   repository.PostRepo
	actionRepo repository.PostActionRepo
	userRepo   repository.UserRepo
	tagService TagService
	moderators ModeratorService
	settings   SettingService
	notifier   Notifier
	events     PostEventPublisher
	now        func() time.Time
}

func NewPostService(
	postRepo repository.PostRepo,
	actionRepo repository.PostActionRepo,
	userRepo repository.UserRepo,
	tagService TagService,
	moderators ModeratorService,
	settings SettingService,
	notifier Notifier,
	events PostEventPublisher,
) PostService {
	return &postServiceImpl{
		postRepo:   postRepo,
		actionRepo: actionRepo,
		userRepo:   userRepo,
		tagService: tagService,
		moderators: moderators,
		settings:   settings,
		notifier:   notifier,
		events:     events,
		now:        time.Now,
	}
}

// CreatePost 新建帖子：校验 -> 分配审核员 -> 解析标签 -> 按预审开关决定初始状态 -> 入库 -> 通知审核员
func (s *postServiceImpl) CreatePost(ctx context.Context, userID uint64, req *dto.PostRequestDTO) (*dto.PostSavedDTO, error) {
	if err := validatePost(req); err != nil {
		return nil, err
	}

	now := s.clock()
	moderatorID, err := s.moderators.AssignModerator(ctx)
	if err != nil {
		return nil, err
	}
	tags, err := s.tagService.ResolveTags(ctx, req.Tags)
	if err != nil {
		return nil, err
	}
	status, err := s.initialStatus(ctx)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		UserID:           userID,
		ModeratorID:      moderatorID,
		IsActive:         req.Active,
		ModerationStatus: status,
		Time:             effectiveTime(req.Timestamp, now),
		Title:            req.Title,
		Text:             req.Text,
		ViewCount:        0,
	}
	if err = s.postRepo.CreatePost(ctx, post, tags); err != nil {
		return nil, err
	}

	log.InfoContext(ctx, "post created",
		"post_id", post.ID, "user_id", userID, "moderator_id", moderatorID, "status", status, "active", post.IsActive)

	if post.IsActive && post.ModerationStatus == model.ModerationNew {
		s.notifyModerator(ctx, post)
	}
	s.publish(ctx, kafka.PostCreated, post)

	return toPostSavedDTO(post), nil
}

// UpdatePost 编辑：标签整体替换，状态按当前预审开关重新计算
func (s *postServiceImpl) UpdatePost(ctx context.Context, userID uint64, postID uint64, req *dto.PostRequestDTO) (*dto.PostSavedDTO, error) {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	if post.UserID != userID {
		isModerator, err := s.isModerator(ctx, userID)
		if err != nil {
			return nil, err
		}
		if !isModerator {
			return nil, UnauthorizedError
		}
	}

	if err = validatePost(req); err != nil {
		return nil, err
	}

	tags, err := s.tagService.ResolveTags(ctx, req.Tags)
	if err != nil {
		return nil, err
	}
	status, err := s.initialStatus(ctx)
	if err != nil {
		return nil, err
	}

	post.Title = req.Title
	post.Text = req.Text
	post.IsActive = req.Active
	post.Time = effectiveTime(req.Timestamp, s.clock())
	post.ModerationStatus = status
	if err = s.postRepo.UpdatePost(ctx, post, tags); err != nil {
		return nil, err
	}

	log.InfoContext(ctx, "post updated", "post_id", post.ID, "editor_id", userID, "status", status)

	if post.IsActive && post.ModerationStatus == model.ModerationNew {
		s.notifyModerator(ctx, post)
	}
	s.publish(ctx, kafka.PostUpdated, post)

	return toPostSavedDTO(post), nil
}

// ModeratePost 审核决定。已审核过的帖子允许再次审核，结果以最后一次为准
func (s *postServiceImpl) ModeratePost(ctx context.Context, moderatorID uint64, postID uint64, decision string) error {
	var status model.ModerationStatus
	switch strings.ToLower(decision) {
	case DecisionAccept:
		status = model.ModerationAccepted
	case DecisionDecline:
		status = model.ModerationDeclined
	default:
		return ErrParamInvalid
	}

	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}

	isModerator, err := s.isModerator(ctx, moderatorID)
	if err != nil {
		return err
	}
	if !isModerator {
		return UnauthorizedError
	}

	if post.ModerationStatus != model.ModerationNew {
		log.WarnContext(ctx, "post moderated again",
			"post_id", postID, "previous", post.ModerationStatus, "next", status)
	}
	if err = s.postRepo.UpdateModeration(ctx, postID, moderatorID, status); err != nil {
		return err
	}
	post.ModeratorID = moderatorID
	post.ModerationStatus = status

	log.InfoContext(ctx, "post moderated", "post_id", postID, "moderator_id", moderatorID, "status", status)

	s.notifyAuthor(ctx, post)
	s.publish(ctx, kafka.PostModerated, post)
	return nil
}

// ViewPost 除作者本人和审核员外，每次查看浏览量 +1；未公开的帖子对其他人不存在
func (s *postServiceImpl) ViewPost(ctx context.Context, viewerID uint64, postID uint64) (*dto.PostDetailDTO, error) {
	post, err := s.postRepo.GetPostDetail(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	// 作者和审核员可以看到未发布的帖子，其他人只能看到公开可见的
	privileged := viewerID != 0 && viewerID == post.UserID
	if !privileged && viewerID != 0 {
		if privileged, err = s.isModerator(ctx, viewerID); err != nil {
			return nil, err
		}
	}
	if !privileged {
		if !post.IsPubliclyVisible(s.clock()) {
			return nil, ErrPostNotFound
		}
		if err = s.postRepo.IncrementViewCount(ctx, postID); err != nil {
			return nil, err
		}
		post.ViewCount++
	}

	counters, err := s.postRepo.GetCounters(ctx, []uint64{postID})
	if err != nil {
		return nil, err
	}

	res := &dto.PostDetailDTO{
		ID:        post.ID,
		Timestamp: post.Time.Unix(),
		Active:    post.IsActive,
		Status:    string(post.ModerationStatus),
		User:      toUserBrief(&post.User),
		Title:     post.Title,
		Text:      post.Text,
		ViewCount: post.ViewCount,
		Comments:  make([]*dto.CommentDTO, 0, len(post.Comments)),
		Tags:      make([]string, 0, len(post.Tags)),
	}
	if c, ok := counters[postID]; ok {
		res.LikeCount = c.LikesCount
		res.DislikeCount = c.DislikesCount
	}
	if viewerID != 0 {
		if res.MyVote, err = s.actionRepo.GetUserVote(ctx, viewerID, postID); err != nil {
			return nil, err
		}
	}
	for i := range post.Comments {
		res.Comments = append(res.Comments, toCommentDTO(&post.Comments[i]))
	}
	for _, tag := range post.Tags {
		res.Tags = append(res.Tags, tag.Name)
	}
	return res, nil
}

// VotePost 重复投同一票返回 false；投相反票会撤销之前的票
func (s *postServiceImpl) VotePost(ctx context.Context, userID uint64, postID uint64, value int8) (bool, error) {
	if value != model.VoteLike && value != model.VoteDislike {
		return false, ErrParamInvalid
	}

	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return false, err
	}
	if post == nil {
		return false, ErrPostNotFound
	}

	return s.actionRepo.ApplyVote(ctx, &model.PostVote{
		UserID: userID,
		PostID: postID,
		Value:  value,
		Time:   s.clock(),
	})
}

func (s *postServiceImpl) ListPosts(ctx context.Context, mode string, offset, limit int) (*dto.PostListDTO, error) {
	listMode, err := parseListMode(mode)
	if err != nil {
		return nil, err
	}
	offset, limit = normalizePage(offset, limit)
	return s.toPostList(ctx)(s.postRepo.ListPublished(ctx, s.clock(), listMode, offset, limit))
}

func (s *postServiceImpl) SearchPosts(ctx context.Context, query string, offset, limit int) (*dto.PostListDTO, error) {
	offset, limit = normalizePage(offset, limit)
	return s.toPostList(ctx)(s.postRepo.SearchPublished(ctx, s.clock(), query, offset, limit))
}

func (s *postServiceImpl) ListPostsByDate(ctx context.Context, date string, offset, limit int) (*dto.PostListDTO, error) {
	day, err := time.ParseInLocation(repository.DateLayout, strings.TrimSpace(date), time.UTC)
	if err != nil {
		return nil, ErrParamInvalid
	}
	offset, limit = normalizePage(offset, limit)
	return s.toPostList(ctx)(s.postRepo.ListPublishedByDate(ctx, s.clock(), day, offset, limit))
}

func (s *postServiceImpl) ListPostsByTag(ctx context.Context, tag string, offset, limit int) (*dto.PostListDTO, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, ErrParamInvalid
	}
	offset, limit = normalizePage(offset, limit)
	return s.toPostList(ctx)(s.postRepo.ListPublishedByTag(ctx, s.clock(), tag, offset, limit))
}

func (s *postServiceImpl) ListMyPosts(ctx context.Context, userID uint64, status string, offset, limit int) (*dto.PostListDTO, error) {
	myStatus := repository.MyPostStatus(strings.ToUpper(strings.TrimSpace(status)))
	switch myStatus {
	case "":
		myStatus = repository.MyPostsPublished
	case repository.MyPostsPending, repository.MyPostsDeclined, repository.MyPostsPublished, repository.MyPostsInactive:
	default:
		return nil, ErrParamInvalid
	}
	offset, limit = normalizePage(offset, limit)
	return s.toPostList(ctx)(s.postRepo.ListByUser(ctx, userID, myStatus, offset, limit))
}

func (s *postServiceImpl) ListModerationPosts(ctx context.Context, moderatorID uint64, status string, offset, limit int) (*dto.PostListDTO, error) {
	modStatus, err := parseModerationStatus(status)
	if err != nil {
		return nil, err
	}
	offset, limit = normalizePage(offset, limit)
	return s.toPostList(ctx)(s.postRepo.ListForModerator(ctx, moderatorID, modStatus, offset, limit))
}

func (s *postServiceImpl) CountByStatus(ctx context.Context, status string) (int64, error) {
	modStatus, err := parseModerationStatus(status)
	if err != nil {
		return 0, err
	}
	return s.postRepo.CountByStatus(ctx, modStatus)
}

func (s *postServiceImpl) clock() time.Time {
	return s.now().UTC().Truncate(time.Second)
}

// initialStatus 预审开启时为 NEW，否则直接通过
func (s *postServiceImpl) initialStatus(ctx context.Context) (model.ModerationStatus, error) {
	premoderation, err := s.settings.IsEnabled(ctx, model.SettingPostPremoderation)
	if err != nil {
		return "", err
	}
	if premoderation {
		return model.ModerationNew, nil
	}
	return model.ModerationAccepted, nil
}

func (s *postServiceImpl) isModerator(ctx context.Context, userID uint64) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return false, err
	}
	return user != nil && user.IsModerator, nil
}

func (s *postServiceImpl) notifyModerator(ctx context.Context, post *model.Post) {
	moderator, err := s.userRepo.GetUserById(ctx, post.ModeratorID)
	if err != nil || moderator == nil {
		log.WarnContext(ctx, "moderator lookup failed, skip notification",
			"post_id", post.ID, "moderator_id", post.ModeratorID, "err", err)
		return
	}
	s.notifier.Notify(ctx, notify.Notification{
		To:         moderator.Email,
		ReceiverID: moderator.ID,
		Kind:       notify.KindModerationRequest,
		TargetID:   post.ID,
		SubjectKey: "mail.moderation.new.subject",
		BodyKey:    "mail.moderation.new.body",
		Params:     []any{post.Title, baseURL(ctx) + "/moderation"},
	})
}

func (s *postServiceImpl) notifyAuthor(ctx context.Context, post *model.Post) {
	author, err := s.userRepo.GetUserById(ctx, post.UserID)
	if err != nil || author == nil {
		log.WarnContext(ctx, "author lookup failed, skip notification",
			"post_id", post.ID, "user_id", post.UserID, "err", err)
		return
	}

	n := notify.Notification{
		To:         author.Email,
		ReceiverID: author.ID,
		TargetID:   post.ID,
		Params:     []any{post.Title},
	}
	if post.ModerationStatus == model.ModerationAccepted {
		n.Kind = notify.KindPostAccepted
		n.SubjectKey, n.BodyKey = "mail.post.accepted.subject", "mail.post.accepted.body"
	} else {
		n.Kind = notify.KindPostDeclined
		n.SubjectKey, n.BodyKey = "mail.post.declined.subject", "mail.post.declined.body"
	}
	s.notifier.Notify(ctx, n)
}

func (s *postServiceImpl) publish(ctx context.Context, typ kafka.PostEventType, post *model.Post) {
	tags := make([]string, 0, len(post.Tags))
	for _, t := range post.Tags {
		tags = append(tags, t.Name)
	}
	s.events.PublishPostEvent(ctx, &kafka.PostEvent{
		Type:        typ,
		PostID:      post.ID,
		UserID:      post.UserID,
		ModeratorID: post.ModeratorID,
		Status:      string(post.ModerationStatus),
		Active:      post.IsActive,
		Tags:        tags,
		PublishAt:   post.Time,
		OccurredAt:  s.clock(),
	})
}

// toPostList 把仓储层 (total, page, err) 的返回值转换为列表 DTO，并批量补全互动计数
func (s *postServiceImpl) toPostList(ctx context.Context) func(int64, []*model.Post, error) (*dto.PostListDTO, error) {
	return func(total int64, posts []*model.Post, err error) (*dto.PostListDTO, error) {
		if err != nil {
			return nil, err
		}

		ids := make([]uint64, 0, len(posts))
		for _, p := range posts {
			ids = append(ids, p.ID)
		}
		counters, err := s.postRepo.GetCounters(ctx, ids)
		if err != nil {
			return nil, err
		}

		res := &dto.PostListDTO{Count: total, Posts: make([]*dto.PostSummaryDTO, 0, len(posts))}
		for _, p := range posts {
			item := &dto.PostSummaryDTO{
				ID:          p.ID,
				Timestamp:   p.Time.Unix(),
				User:        toUserBrief(&p.User),
				Title:       p.Title,
				Announce:    util.Snippet(p.Text, consts.SnippetLength),
				ViewCount:   p.ViewCount,
				Active:      p.IsActive,
				Status:      string(p.ModerationStatus),
				ModeratorID: p.ModeratorID,
			}
			if c, ok := counters[p.ID]; ok {
				item.LikeCount = c.LikesCount
				item.DislikeCount = c.DislikesCount
				item.CommentCount = c.CommentsCount
			}
			res.Posts = append(res.Posts, item)
		}
		return res, nil
	}
}

func validatePost(req *dto.PostRequestDTO) error {
	return fieldErrors(req).OrNil()
}

// effectiveTime 请求时间早于 now 时按 now 发布
func effectiveTime(timestamp int64, now time.Time) time.Time {
	requested := time.Unix(timestamp, 0).UTC()
	if requested.Before(now) {
		return now
	}
	return requested
}

func parseListMode(mode string) (repository.ListMode, error) {
	m := repository.ListMode(strings.ToUpper(strings.TrimSpace(mode)))
	switch m {
	case "":
		return repository.ListModeRecent, nil
	case repository.ListModeRecent, repository.ListModeEarly, repository.ListModeBest, repository.ListModePopular:
		return m, nil
	default:
		return "", ErrParamInvalid
	}
}

func parseModerationStatus(status string) (model.ModerationStatus, error) {
	st := model.ModerationStatus(strings.ToUpper(strings.TrimSpace(status)))
	switch st {
	case "":
		return model.ModerationNew, nil
	case model.ModerationNew, model.ModerationAccepted, model.ModerationDeclined:
		return st, nil
	default:
		return "", ErrParamInvalid
	}
}

func normalizePage(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = consts.DefaultPageLimit
	}
	if limit > consts.MaxPageLimit {
		limit = consts.MaxPageLimit
	}
	return offset, limit
}

func baseURL(ctx context.Context) string {
	if v, ok := ctx.Value(consts.BaseURL).(string); ok {
		return strings.TrimRight(v, "/")
	}
	return ""
}

func toPostSavedDTO(post *model.Post) *dto.PostSavedDTO {
	return &dto.PostSavedDTO{
		ID:          post.ID,
		Status:      string(post.ModerationStatus),
		ModeratorID: post.ModeratorID,
		Timestamp:   post.Time.Unix(),
	}
}

func toUserBrief(user *model.User) dto.UserBriefDTO {
	return dto.UserBriefDTO{
		ID:    user.ID,
		Name:  user.Name,
		Photo: minio.GetPublicURL(user.Photo),
	}
}

func toCommentDTO(comment *model.PostComment) *dto.CommentDTO {
	return &dto.CommentDTO{
		ID:        comment.ID,
		ParentID:  comment.ParentID,
		Timestamp: comment.Time.Unix(),
		Text:      comment.Text,
		User:      toUserBrief(&comment.User),
	}
}
