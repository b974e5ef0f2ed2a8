package user

import (
	"context"
	"errors"

	"foodgram/domain"
	"foodgram/entities"

	"gorm.io/gorm"
)

type (
	UserRepository interface {
		CreateUser(ctx context.Context, user *entities.User) error
		GetUserByID(ctx context.Context, id uint) (*entities.User, error)
		GetUserByEmail(ctx context.Context, email string) (*entities.User, error)
		CheckUserExists(ctx context.Context, email, username string) (string, error)
		GetUsers(ctx context.Context, page, limit int) ([]*entities.User, int64, error)
		UpdateUser(ctx context.Context, user *entities.User) error

		CreateFollow(ctx context.Context, followerID, authorID uint) error
		DeleteFollow(ctx context.Context, followerID, authorID uint) error
		IsFollowing(ctx context.Context, followerID, authorID uint) (bool, error)
		FollowedAuthorIDs(ctx context.Context, followerID uint, authorIDs []uint) (map[uint]struct{}, error)
		GetFollowedAuthors(ctx context.Context, followerID uint, page, limit int) ([]*entities.User, int64, error)
	}

	userRepository struct {
		db *gorm.DB
	}
)

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *entities.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewFieldError("email", user.Email, domain.ErrDuplicateEntry)
		}
		return err
	}
	return nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id uint) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// CheckUserExists returns the name of the first unique field already taken,
// or an empty string.
func (r *userRepository) CheckUserExists(ctx context.Context, email, username string) (string, error) {
	var taken []entities.User
	if err := r.db.WithContext(ctx).
		Select("email", "username").
		Where("email = ? OR username = ?", email, username).
		Find(&taken).Error; err != nil {
		return "", err
	}

	for _, u := range taken {
		if u.Email == email {
			return "email", nil
		}
	}
	if len(taken) > 0 {
		return "username", nil
	}
	return "", nil
}

func (r *userRepository) GetUsers(ctx context.Context, page, limit int) ([]*entities.User, int64, error) {
	var users []*entities.User
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).Model(&entities.User{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Order("id asc").
		Offset(offset).
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, count, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, user *entities.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) CreateFollow(ctx context.Context, followerID, authorID uint) error {
	follow := entities.Follow{FollowerID: followerID, AuthorID: authorID}
	if err := r.db.WithContext(ctx).Create(&follow).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewFieldError("author", authorID, domain.ErrDuplicateEntry)
		}
		if errors.Is(err, gorm.ErrCheckConstraintViolated) {
			return domain.NewFieldError("author", authorID, domain.ErrSelfReferenceNotAllowed)
		}
		return err
	}
	return nil
}

func (r *userRepository) DeleteFollow(ctx context.Context, followerID, authorID uint) error {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND author_id = ?", followerID, authorID).
		Delete(&entities.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.NewFieldError("author", authorID, domain.ErrNotFound)
	}
	return nil
}

func (r *userRepository) IsFollowing(ctx context.Context, followerID, authorID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Follow{}).
		Where("follower_id = ? AND author_id = ?", followerID, authorID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) FollowedAuthorIDs(ctx context.Context, followerID uint, authorIDs []uint) (map[uint]struct{}, error) {
	followed := make(map[uint]struct{}, len(authorIDs))
	if followerID == 0 || len(authorIDs) == 0 {
		return followed, nil
	}

	var found []uint
	if err := r.db.WithContext(ctx).
		Model(&entities.Follow{}).
		Where("follower_id = ? AND author_id IN ?", followerID, authorIDs).
		Pluck("author_id", &found).Error; err != nil {
		return nil, err
	}

	for _, id := range found {
		followed[id] = struct{}{}
	}
	return followed, nil
}

func (r *userRepository) GetFollowedAuthors(ctx context.Context, followerID uint, page, limit int) ([]*entities.User, int64, error) {
	var users []*entities.User
	var count int64
	offset := (page - 1) * limit

	base := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Model(&entities.User{}).
			Joins("JOIN follows ON follows.author_id = users.id").
			Where("follows.follower_id = ?", followerID)
	}

	if err := base().Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := base().
		Select("users.*").
		Order("follows.created_at desc").
		Order("users.id asc").
		Offset(offset).
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, count, nil
}
