package entities

type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Email     string `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Username  string `gorm:"size:150;uniqueIndex;not null" json:"username"`
	FirstName string `gorm:"size:150;not null" json:"first_name"`
	LastName  string `gorm:"size:150;not null" json:"last_name"`
	Password  string `gorm:"not null" json:"-"`
	AvatarURL string `json:"avatar,omitempty"`
	AvatarKey string `json:"-"`

	Timestamp
}

func (u *User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Follow is a subscription of Follower to the recipes of Author.
type Follow struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	FollowerID uint `gorm:"not null;uniqueIndex:idx_follow_pair;check:chk_follow_not_self,follower_id <> author_id" json:"follower_id"`
	AuthorID   uint `gorm:"not null;uniqueIndex:idx_follow_pair;index" json:"author_id"`

	Follower *User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	Author   *User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Timestamp
}
