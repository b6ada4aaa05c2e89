package users

import (
	"go.mongodb.org/mongo-driver/bson"

	"quill/models"
)

// ByEmail matches the single user with this address.
func ByEmail(email string) bson.M {
	return bson.M{"email": email}
}

// ProfileUpdate sets only the profile fields present in u.
func ProfileUpdate(u models.ProfileUpdate) bson.M {
	set := bson.M{}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.ProfileImage != nil {
		set["profileImage"] = *u.ProfileImage
	}
	if u.Address != nil {
		set["address"] = *u.Address
	}
	if u.Phone != nil {
		set["phone"] = *u.Phone
	}
	if u.Dob != nil {
		set["dob"] = *u.Dob
	}
	if u.Bio != nil {
		set["bio"] = *u.Bio
	}
	return bson.M{"$set": set}
}

func RoleUpdate(role string) bson.M {
	return bson.M{"$set": bson.M{"role": role}}
}
