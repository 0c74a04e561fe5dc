package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"b2bconnect-backend/models"
	"b2bconnect-backend/utils/logger"
)

type PostServiceTestSuite struct {
	suite.Suite
	postRepo     *MockPostRepository
	businessRepo *MockBusinessRepository
	blobStore    *MockBlobStore
	service      *PostService
}

func (s *PostServiceTestSuite) SetupTest() {
	s.postRepo = new(MockPostRepository)
	s.businessRepo = new(MockBusinessRepository)
	s.blobStore = new(MockBlobStore)
	s.service = NewPostService(s.postRepo, s.businessRepo, s.blobStore, logger.NewLogger("error", "text"))
}

func TestPostServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PostServiceTestSuite))
}

func (s *PostServiceTestSuite) readyBusiness() *models.Business {
	return &models.Business{
		ID:      "biz-1",
		OwnerID: "user-1",
		Members: []string{"user-1"},
		ProfileCompletion: models.ProfileCompletion{
			BasicInfo:            true,
			ContactDetails:       true,
			CompletionPercentage: 50,
		},
	}
}

func (s *PostServiceTestSuite) TestCreatePostPublishStampsPublishedAt() {
	s.businessRepo.On("GetBusiness", mock.Anything, "biz-1").Return(s.readyBusiness(), nil)
	s.postRepo.On("CreatePost", mock.Anything, mock.AnythingOfType("*models.Post")).
		Return(&models.Post{ID: "post-1"}, nil)
	s.businessRepo.On("UpdateBusiness", mock.Anything, "biz-1", mock.Anything).Return(nil)

	_, err := s.service.CreatePost(context.Background(), "user-1", "biz-1", &models.CreatePostRequest{
		Title:   "New Warehouse Opening",
		Content: "We are opening a second warehouse next month.",
		Publish: true,
	})

	s.Require().NoError(err)
	stored := s.postRepo.Calls[0].Arguments.Get(1).(*models.Post)
	s.Equal("new-warehouse-opening", stored.Slug)
	s.Equal(models.PostStatusPublished, stored.Status)
	s.Require().NotNil(stored.PublishedAt)
	s.WithinDuration(time.Now(), *stored.PublishedAt, time.Minute)
	s.Equal(models.PostCategoryUpdate, stored.Category)
	s.Equal("user-1", stored.AuthorID)
}

func (s *PostServiceTestSuite) TestCreatePostDraftHasNoPublishedAt() {
	s.businessRepo.On("GetBusiness", mock.Anything, "biz-1").Return(s.readyBusiness(), nil)
	s.postRepo.On("CreatePost", mock.Anything, mock.Anything).Return(&models.Post{ID: "post-1"}, nil)
	s.businessRepo.On("UpdateBusiness", mock.Anything, "biz-1", mock.Anything).Return(nil)

	_, err := s.service.CreatePost(context.Background(), "user-1", "biz-1", &models.CreatePostRequest{
		Title:   "Draft Notes",
		Content: "Not ready for the feed yet, still editing.",
	})

	s.Require().NoError(err)
	stored := s.postRepo.Calls[0].Arguments.Get(1).(*models.Post)
	s.Equal(models.PostStatusDraft, stored.Status)
	s.Nil(stored.PublishedAt)
}

func (s *PostServiceTestSuite) TestCreatePostIncompleteProfileBlocked() {
	business := s.readyBusiness()
	business.ProfileCompletion = models.ProfileCompletion{BasicInfo: true, CompletionPercentage: 25}
	s.businessRepo.On("GetBusiness", mock.Anything, "biz-1").Return(business, nil)

	_, err := s.service.CreatePost(context.Background(), "user-1", "biz-1", &models.CreatePostRequest{
		Title:   "Too Early",
		Content: "The profile has not crossed the threshold.",
	})

	s.ErrorIs(err, ErrProfileIncomplete)
	s.postRepo.AssertNotCalled(s.T(), "CreatePost", mock.Anything, mock.Anything)
}

func (s *PostServiceTestSuite) TestCreatePostNonMemberForbidden() {
	s.businessRepo.On("GetBusiness", mock.Anything, "biz-1").Return(s.readyBusiness(), nil)

	_, err := s.service.CreatePost(context.Background(), "stranger", "biz-1", &models.CreatePostRequest{
		Title:   "Not Yours",
		Content: "Only members may post for a business.",
	})

	s.ErrorIs(err, ErrForbidden)
}

func (s *PostServiceTestSuite) TestCreatePostShortContentRejected() {
	_, err := s.service.CreatePost(context.Background(), "user-1", "biz-1", &models.CreatePostRequest{
		Title:   "Valid Title",
		Content: "short",
	})

	var validationErr *ValidationError
	s.ErrorAs(err, &validationErr)
	s.businessRepo.AssertNotCalled(s.T(), "GetBusiness", mock.Anything, mock.Anything)
}

func (s *PostServiceTestSuite) TestCreatePostExcerptTruncation() {
	s.businessRepo.On("GetBusiness", mock.Anything, "biz-1").Return(s.readyBusiness(), nil)
	s.postRepo.On("CreatePost", mock.Anything, mock.Anything).Return(&models.Post{ID: "post-1"}, nil)
	s.businessRepo.On("UpdateBusiness", mock.Anything, "biz-1", mock.Anything).Return(nil)

	content := strings.Repeat("a", 400)
	_, err := s.service.CreatePost(context.Background(), "user-1", "biz-1", &models.CreatePostRequest{
		Title:   "Long Read",
		Content: content,
	})

	s.Require().NoError(err)
	stored := s.postRepo.Calls[0].Arguments.Get(1).(*models.Post)
	s.Equal(models.ExcerptLength+1, len([]rune(stored.Excerpt)))
	s.True(strings.HasSuffix(stored.Excerpt, "…"))
}

func (s *PostServiceTestSuite) TestListFeedHidesDraftsWithoutBusinessFilter() {
	published := time.Now().Add(-time.Hour)
	s.postRepo.On("ListPosts", mock.Anything).Return([]*models.Post{
		{ID: "p1", Status: models.PostStatusPublished, PublishedAt: &published},
		{ID: "p2", Status: models.PostStatusDraft},
	}, nil)

	posts, pagination, err := s.service.ListFeed(context.Background(), "", nil)

	s.Require().NoError(err)
	s.Require().Len(posts, 1)
	s.Equal("p1", posts[0].ID)
	s.Equal(1, pagination.Total)
}

func (s *PostServiceTestSuite) TestListFeedNewestFirst() {
	older := time.Now().Add(-2 * time.Hour)
	newer := time.Now().Add(-time.Minute)
	s.postRepo.On("ListPosts", mock.Anything).Return([]*models.Post{
		{ID: "old", Status: models.PostStatusPublished, PublishedAt: &older},
		{ID: "new", Status: models.PostStatusPublished, PublishedAt: &newer},
	}, nil)

	posts, _, err := s.service.ListFeed(context.Background(), "", &models.PostFilter{})

	s.Require().NoError(err)
	s.Require().Len(posts, 2)
	s.Equal("new", posts[0].ID)
	s.Equal("old", posts[1].ID)
}

func (s *PostServiceTestSuite) TestListFeedBusinessFilterShowsDraftsToMembers() {
	s.businessRepo.On("GetBusiness", mock.Anything, "biz-1").Return(s.readyBusiness(), nil)
	s.postRepo.On("ListByBusiness", mock.Anything, "biz-1").Return([]*models.Post{
		{ID: "p1", BusinessID: "biz-1", Status: models.PostStatusDraft, CreatedAt: time.Now()},
	}, nil)

	posts, _, err := s.service.ListFeed(context.Background(), "user-1", &models.PostFilter{BusinessID: "biz-1"})

	s.Require().NoError(err)
	s.Len(posts, 1)
	s.postRepo.AssertNotCalled(s.T(), "ListPosts", mock.Anything)
}

func (s *PostServiceTestSuite) TestListFeedBusinessFilterHidesDraftsFromAnonymous() {
	published := time.Now()
	s.businessRepo.On("GetBusiness", mock.Anything, "biz-1").Return(s.readyBusiness(), nil)
	s.postRepo.On("ListByBusiness", mock.Anything, "biz-1").Return([]*models.Post{
		{ID: "p1", BusinessID: "biz-1", Status: models.PostStatusDraft, Title: "unreleased"},
		{ID: "p2", BusinessID: "biz-1", Status: models.PostStatusPublished, PublishedAt: &published},
	}, nil)

	posts, _, err := s.service.ListFeed(context.Background(), "", &models.PostFilter{BusinessID: "biz-1"})

	s.Require().NoError(err)
	s.Require().Len(posts, 1)
	s.Equal("p2", posts[0].ID)
}

func (s *PostServiceTestSuite) TestListFeedStatusFilterIgnoredForOutsiders() {
	published := time.Now()
	s.businessRepo.On("GetBusiness", mock.Anything, "biz-1").Return(s.readyBusiness(), nil)
	s.postRepo.On("ListByBusiness", mock.Anything, "biz-1").Return([]*models.Post{
		{ID: "p1", BusinessID: "biz-1", Status: models.PostStatusDraft},
		{ID: "p2", BusinessID: "biz-1", Status: models.PostStatusPublished, PublishedAt: &published},
	}, nil)

	posts, _, err := s.service.ListFeed(context.Background(), "stranger", &models.PostFilter{
		BusinessID: "biz-1",
		Status:     models.PostStatusDraft,
	})

	s.Require().NoError(err)
	s.Require().Len(posts, 1)
	s.Equal("p2", posts[0].ID)
}

func (s *PostServiceTestSuite) TestListFeedCategoryFilter() {
	published := time.Now()
	s.postRepo.On("ListPosts", mock.Anything).Return([]*models.Post{
		{ID: "p1", Status: models.PostStatusPublished, PublishedAt: &published, Category: models.PostCategoryEvent},
		{ID: "p2", Status: models.PostStatusPublished, PublishedAt: &published, Category: models.PostCategoryArticle},
	}, nil)

	posts, _, err := s.service.ListFeed(context.Background(), "", &models.PostFilter{Category: models.PostCategoryEvent})

	s.Require().NoError(err)
	s.Require().Len(posts, 1)
	s.Equal("p1", posts[0].ID)
}

func (s *PostServiceTestSuite) TestListFeedTextQueryMatchesTitleContentTags() {
	published := time.Now()
	s.postRepo.On("ListPosts", mock.Anything).Return([]*models.Post{
		{ID: "p1", Status: models.PostStatusPublished, PublishedAt: &published, Title: "Harvest Season Update"},
		{ID: "p2", Status: models.PostStatusPublished, PublishedAt: &published, Content: "the harvest came in early"},
		{ID: "p3", Status: models.PostStatusPublished, PublishedAt: &published, Tags: []string{"harvest"}},
		{ID: "p4", Status: models.PostStatusPublished, PublishedAt: &published, Title: "Unrelated"},
	}, nil)

	posts, pagination, err := s.service.ListFeed(context.Background(), "", &models.PostFilter{Query: "HARVEST"})

	s.Require().NoError(err)
	s.Len(posts, 3)
	s.Equal(3, pagination.Total)
}

func (s *PostServiceTestSuite) TestUpdatePostFirstPublishStampsOnce() {
	existing := &models.Post{ID: "post-1", BusinessID: "biz-1", Status: models.PostStatusDraft, Content: "original content here"}
	s.postRepo.On("GetPost", mock.Anything, "post-1").Return(existing, nil)
	s.businessRepo.On("GetBusiness", mock.Anything, "biz-1").Return(s.readyBusiness(), nil)
	s.postRepo.On("UpdatePost", mock.Anything, "post-1", mock.Anything).Return(nil)

	status := "published"
	post, err := s.service.UpdatePost(context.Background(), "post-1", "user-1", &models.UpdatePostRequest{Status: &status})

	s.Require().NoError(err)
	s.Equal(models.PostStatusPublished, post.Status)
	s.Require().NotNil(post.PublishedAt)

	updates := s.postRepo.Calls[1].Arguments.Get(2).(map[string]interface{})
	s.Contains(updates, "published_at")
}

func (s *PostServiceTestSuite) TestUpdatePostRepublishKeepsOriginalTimestamp() {
	firstPublish := time.Now().Add(-48 * time.Hour)
	existing := &models.Post{ID: "post-1", BusinessID: "biz-1", Status: models.PostStatusDraft, PublishedAt: &firstPublish}
	s.postRepo.On("GetPost", mock.Anything, "post-1").Return(existing, nil)
	s.businessRepo.On("GetBusiness", mock.Anything, "biz-1").Return(s.readyBusiness(), nil)
	s.postRepo.On("UpdatePost", mock.Anything, "post-1", mock.Anything).Return(nil)

	status := "published"
	post, err := s.service.UpdatePost(context.Background(), "post-1", "user-1", &models.UpdatePostRequest{Status: &status})

	s.Require().NoError(err)
	s.Equal(firstPublish, *post.PublishedAt)

	updates := s.postRepo.Calls[1].Arguments.Get(2).(map[string]interface{})
	s.NotContains(updates, "published_at")
}

func (s *PostServiceTestSuite) TestUpdatePostContentRefreshesExcerpt() {
	existing := &models.Post{ID: "post-1", BusinessID: "biz-1"}
	s.postRepo.On("GetPost", mock.Anything, "post-1").Return(existing, nil)
	s.businessRepo.On("GetBusiness", mock.Anything, "biz-1").Return(s.readyBusiness(), nil)
	s.postRepo.On("UpdatePost", mock.Anything, "post-1", mock.Anything).Return(nil)

	content := "Fresh content that replaces the old body entirely."
	post, err := s.service.UpdatePost(context.Background(), "post-1", "user-1", &models.UpdatePostRequest{Content: &content})

	s.Require().NoError(err)
	s.Equal(content, post.Excerpt)
}

func (s *PostServiceTestSuite) TestUpdatePostUnknownStatusRejected() {
	status := "archived"
	_, err := s.service.UpdatePost(context.Background(), "post-1", "user-1", &models.UpdatePostRequest{Status: &status})

	var validationErr *ValidationError
	s.ErrorAs(err, &validationErr)
	s.postRepo.AssertNotCalled(s.T(), "GetPost", mock.Anything, mock.Anything)
}

func (s *PostServiceTestSuite) TestUpdatePostShortTitleRejected() {
	title := "x"
	_, err := s.service.UpdatePost(context.Background(), "post-1", "user-1", &models.UpdatePostRequest{Title: &title})

	var validationErr *ValidationError
	s.ErrorAs(err, &validationErr)
	s.postRepo.AssertNotCalled(s.T(), "UpdatePost", mock.Anything, mock.Anything, mock.Anything)
}

func (s *PostServiceTestSuite) TestUpdatePostNonMemberForbidden() {
	s.postRepo.On("GetPost", mock.Anything, "post-1").
		Return(&models.Post{ID: "post-1", BusinessID: "biz-1"}, nil)
	s.businessRepo.On("GetBusiness", mock.Anything, "biz-1").Return(s.readyBusiness(), nil)

	title := "Hijacked"
	_, err := s.service.UpdatePost(context.Background(), "post-1", "stranger", &models.UpdatePostRequest{Title: &title})

	s.ErrorIs(err, ErrForbidden)
	s.postRepo.AssertNotCalled(s.T(), "UpdatePost", mock.Anything, mock.Anything, mock.Anything)
}

func (s *PostServiceTestSuite) TestRecordViewResolvesSlugFirst() {
	s.postRepo.On("GetPost", mock.Anything, "new-warehouse-opening").
		Return(&models.Post{ID: "post-1"}, nil)
	s.postRepo.On("IncrementViewCount", mock.Anything, "post-1").Return(nil)

	err := s.service.RecordView(context.Background(), "new-warehouse-opening")

	s.Require().NoError(err)
	s.postRepo.AssertCalled(s.T(), "IncrementViewCount", mock.Anything, "post-1")
}
