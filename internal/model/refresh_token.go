package model

// RefreshToken is a long-lived credential, one per email. The user fields
// are a snapshot taken when the token was minted.
type RefreshToken struct {
	ID    string     `gorm:"primaryKey;size:16" bson:"_id" json:"id"`
	Token string     `gorm:"uniqueIndex;not null" bson:"token" json:"token"`
	User  TokenOwner `gorm:"embedded" bson:"user" json:"user"`
}

type TokenOwner struct {
	UserID string `gorm:"column:user_id;index" bson:"_id" json:"id"`
	Name   string `gorm:"column:user_name" bson:"name" json:"name"`
	Email  string `gorm:"column:user_email;uniqueIndex" bson:"email" json:"email"`
	Admin  int    `gorm:"column:user_admin" bson:"admin" json:"admin"`
}

func SnapshotOf(u *User) TokenOwner {
	return TokenOwner{
		UserID: u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Admin:  u.Admin,
	}
}

func (o TokenOwner) Identity() Identity {
	return Identity{
		UserID: o.UserID,
		Name:   o.Name,
		Email:  o.Email,
		Admin:  o.Admin == 1,
	}
}
