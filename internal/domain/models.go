package domain

// Models lists every persisted type in dependency order for AutoMigrate.
func Models() []any {
	return []any{
		&Retreat{},
		&RetreatDate{},
		&Package{},
		&RoomType{},
		&Guest{},
		&Influencer{},
		&PromoCode{},
		&Booking{},
		&Payment{},
		&Teacher{},
		&TeacherRetreatAssignment{},
		&AdminUser{},
	}
}
