package entity

type User struct {
	ID       int    `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Avatar   Avatar `json:"avatar"`
	Password string `json:"-"` // bcrypt hash, never serialized
}

type Avatar struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

/*
MySQL table, see migrations.AutoMigrateUsers:

users(id, full_name, email UNIQUE, phone, avatar_src, avatar_alt, password)
*/
