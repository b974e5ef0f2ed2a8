package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/logging"
	"foodgram/internal/utils"
	"foodgram/internal/utils/storage"
	"foodgram/pkg/jwt"
	"foodgram/pkg/validation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type (
	// AuthorRecipes is the slice of the recipe store needed to render
	// subscriptions. The recipe repository satisfies it.
	AuthorRecipes interface {
		GetRecipesByAuthor(ctx context.Context, authorID uint, limit int) ([]*entities.Recipe, error)
		CountRecipesByAuthor(ctx context.Context, authorID uint) (int64, error)
	}

	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.User, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		GetUsers(ctx context.Context, viewer domain.Identity, page, limit int) (domain.UserListResponse, error)
		GetUser(ctx context.Context, viewer domain.Identity, id uint) (domain.User, error)
		Me(ctx context.Context, viewer domain.Identity) (domain.User, error)
		SetAvatar(ctx context.Context, viewer domain.Identity, req domain.AvatarRequest) (domain.AvatarResponse, error)
		DeleteAvatar(ctx context.Context, viewer domain.Identity) error
		Subscribe(ctx context.Context, viewer domain.Identity, authorID uint, recipesLimit int) (domain.Subscription, error)
		Unsubscribe(ctx context.Context, viewer domain.Identity, authorID uint) error
		GetSubscriptions(ctx context.Context, viewer domain.Identity, page, limit, recipesLimit int) (domain.SubscriptionListResponse, error)
	}

	userService struct {
		userRepository UserRepository
		authorRecipes  AuthorRecipes
		validator      *validation.Engine
		jwtService     jwt.JWTService
		storage        storage.Storage
	}
)

func NewUserService(
	userRepository UserRepository,
	authorRecipes AuthorRecipes,
	validator *validation.Engine,
	jwtService jwt.JWTService,
	storage storage.Storage,
) UserService {
	return &userService{
		userRepository: userRepository,
		authorRecipes:  authorRecipes,
		validator:      validator,
		jwtService:     jwtService,
		storage:        storage,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	field, err := s.userRepository.CheckUserExists(ctx, email, req.Username)
	if err != nil {
		return domain.User{}, err
	}
	if field != "" {
		return domain.User{}, domain.NewFieldError(field, nil, domain.ErrDuplicateEntry)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	user := entities.User{
		Email:     email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  string(hashed),
	}
	if err := s.userRepository.CreateUser(ctx, &user); err != nil {
		return domain.User{}, err
	}

	logging.Info().Uint("user_id", user.ID).Msg("user registered")
	return ToDomain(&user, false), nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.LoginResponse{}, domain.ErrInvalidCredentials
		}
		return domain.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateTokenUser(user.ID)
	if err != nil {
		return domain.LoginResponse{}, err
	}
	return domain.LoginResponse{AuthToken: token}, nil
}

func (s *userService) GetUsers(ctx context.Context, viewer domain.Identity, page, limit int) (domain.UserListResponse, error) {
	users, total, err := s.userRepository.GetUsers(ctx, page, limit)
	if err != nil {
		return domain.UserListResponse{}, err
	}

	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	followed, err := s.userRepository.FollowedAuthorIDs(ctx, viewer.UserID, ids)
	if err != nil {
		return domain.UserListResponse{}, err
	}

	res := make([]domain.User, 0, len(users))
	for _, u := range users {
		_, ok := followed[u.ID]
		res = append(res, ToDomain(u, ok))
	}

	return domain.UserListResponse{
		Users:      res,
		Pagination: domain.NewPagination(page, limit, total),
	}, nil
}

func (s *userService) GetUser(ctx context.Context, viewer domain.Identity, id uint) (domain.User, error) {
	user, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	subscribed := false
	if viewer.Authenticated {
		if subscribed, err = s.userRepository.IsFollowing(ctx, viewer.UserID, id); err != nil {
			return domain.User{}, err
		}
	}
	return ToDomain(user, subscribed), nil
}

func (s *userService) Me(ctx context.Context, viewer domain.Identity) (domain.User, error) {
	if !viewer.Authenticated {
		return domain.User{}, domain.ErrUnauthenticated
	}
	user, err := s.userRepository.GetUserByID(ctx, viewer.UserID)
	if err != nil {
		return domain.User{}, err
	}
	return ToDomain(user, false), nil
}

func (s *userService) SetAvatar(ctx context.Context, viewer domain.Identity, req domain.AvatarRequest) (domain.AvatarResponse, error) {
	if !viewer.Authenticated {
		return domain.AvatarResponse{}, domain.ErrUnauthenticated
	}
	user, err := s.userRepository.GetUserByID(ctx, viewer.UserID)
	if err != nil {
		return domain.AvatarResponse{}, err
	}

	img, err := utils.DecodeBase64Image(req.Avatar)
	if err != nil {
		return domain.AvatarResponse{}, domain.NewFieldError("avatar", nil, err)
	}

	key := fmt.Sprintf("users/%d/%s.%s", user.ID, uuid.NewString(), img.Extension)
	url, err := s.storage.UploadFile(ctx, key, img.Content, img.ContentType)
	if err != nil {
		return domain.AvatarResponse{}, err
	}

	previous := user.AvatarKey
	user.AvatarURL = url
	user.AvatarKey = key
	if err := s.userRepository.UpdateUser(ctx, user); err != nil {
		return domain.AvatarResponse{}, err
	}

	s.removeFile(ctx, previous)
	return domain.AvatarResponse{Avatar: url}, nil
}

func (s *userService) DeleteAvatar(ctx context.Context, viewer domain.Identity) error {
	if !viewer.Authenticated {
		return domain.ErrUnauthenticated
	}
	user, err := s.userRepository.GetUserByID(ctx, viewer.UserID)
	if err != nil {
		return err
	}

	previous := user.AvatarKey
	user.AvatarURL = ""
	user.AvatarKey = ""
	if err := s.userRepository.UpdateUser(ctx, user); err != nil {
		return err
	}

	s.removeFile(ctx, previous)
	return nil
}

// removeFile drops a replaced upload. Failures only leave an orphan object.
func (s *userService) removeFile(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.storage.DeleteFile(ctx, key); err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("failed to delete stale avatar")
	}
}

func (s *userService) Subscribe(ctx context.Context, viewer domain.Identity, authorID uint, recipesLimit int) (domain.Subscription, error) {
	if !viewer.Authenticated {
		return domain.Subscription{}, domain.ErrUnauthenticated
	}
	author, err := s.userRepository.GetUserByID(ctx, authorID)
	if err != nil {
		return domain.Subscription{}, err
	}

	if err := s.validator.ValidateFollow(ctx, viewer.UserID, authorID); err != nil {
		return domain.Subscription{}, err
	}
	if err := s.userRepository.CreateFollow(ctx, viewer.UserID, authorID); err != nil {
		return domain.Subscription{}, err
	}

	logging.Info().Uint("follower_id", viewer.UserID).Uint("author_id", authorID).Msg("subscribed")
	return s.subscription(ctx, author, recipesLimit)
}

func (s *userService) Unsubscribe(ctx context.Context, viewer domain.Identity, authorID uint) error {
	if !viewer.Authenticated {
		return domain.ErrUnauthenticated
	}
	if _, err := s.userRepository.GetUserByID(ctx, authorID); err != nil {
		return err
	}

	if err := s.validator.ValidateUnfollow(ctx, viewer.UserID, authorID); err != nil {
		return err
	}
	return s.userRepository.DeleteFollow(ctx, viewer.UserID, authorID)
}

func (s *userService) GetSubscriptions(ctx context.Context, viewer domain.Identity, page, limit, recipesLimit int) (domain.SubscriptionListResponse, error) {
	if !viewer.Authenticated {
		return domain.SubscriptionListResponse{}, domain.ErrUnauthenticated
	}

	authors, total, err := s.userRepository.GetFollowedAuthors(ctx, viewer.UserID, page, limit)
	if err != nil {
		return domain.SubscriptionListResponse{}, err
	}

	res := make([]domain.Subscription, 0, len(authors))
	for _, author := range authors {
		sub, err := s.subscription(ctx, author, recipesLimit)
		if err != nil {
			return domain.SubscriptionListResponse{}, err
		}
		res = append(res, sub)
	}

	return domain.SubscriptionListResponse{
		Subscriptions: res,
		Pagination:    domain.NewPagination(page, limit, total),
	}, nil
}

// subscription renders a followed author. A non-positive recipesLimit
// returns every recipe.
func (s *userService) subscription(ctx context.Context, author *entities.User, recipesLimit int) (domain.Subscription, error) {
	recipes, err := s.authorRecipes.GetRecipesByAuthor(ctx, author.ID, recipesLimit)
	if err != nil {
		return domain.Subscription{}, err
	}
	count, err := s.authorRecipes.CountRecipesByAuthor(ctx, author.ID)
	if err != nil {
		return domain.Subscription{}, err
	}

	short := make([]domain.ShortRecipe, 0, len(recipes))
	for _, r := range recipes {
		short = append(short, domain.ShortRecipe{
			ID:          r.ID,
			Name:        r.Name,
			Image:       r.ImageURL,
			CookingTime: r.CookingTime,
		})
	}

	return domain.Subscription{
		User:         ToDomain(author, true),
		Recipes:      short,
		RecipesCount: count,
	}, nil
}

func ToDomain(u *entities.User, subscribed bool) domain.User {
	return domain.User{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Avatar:       u.AvatarURL,
		IsSubscribed: subscribed,
	}
}
