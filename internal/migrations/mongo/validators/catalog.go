package validators

import "go.mongodb.org/mongo-driver/bson"

var geoPoint = bson.M{
	"bsonType": "object",
	"required": []string{"type", "coordinates"},
	"properties": bson.M{
		"type": bson.M{"enum": []string{"Point"}},
		"coordinates": bson.M{
			"bsonType": "array",
			"minItems": 2,
			"maxItems": 2,
			"items":    bson.M{"bsonType": "double"},
		},
	},
}

var UserValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"email", "phone", "password_hash", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":           bson.M{"bsonType": "objectId"},
			"email":         bson.M{"bsonType": "string", "maxLength": 254},
			"phone":         bson.M{"bsonType": "string", "pattern": `^\+[1-9]\d{6,14}$`},
			"password_hash": bson.M{"bsonType": "string"},
			"created_at":    bson.M{"bsonType": "date"},
		},
	},
}

var ProfileValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"user_id", "name", "type", "location", "address", "rating", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":      bson.M{"bsonType": "objectId"},
			"user_id":  objectIDHex,
			"name":     bson.M{"bsonType": "string", "minLength": 2, "maxLength": 100},
			"type":     bson.M{"enum": []string{"User", "Provider"}},
			"location": geoPoint,
			"address": bson.M{
				"bsonType": "object",
				"required": []string{"street", "city", "state", "country", "postal_code"},
				"properties": bson.M{
					"postal_code": bson.M{"bsonType": "string", "pattern": `^\d{5}(-\d{4})?$`},
				},
			},
			"interests":  bson.M{"bsonType": "array", "maxItems": 20, "items": bson.M{"bsonType": "string"}},
			"services":   bson.M{"bsonType": "array", "maxItems": 20, "items": bson.M{"bsonType": "string"}},
			"rating":     bson.M{"bsonType": []string{"double", "int"}, "minimum": 0, "maximum": 5},
			"created_at": bson.M{"bsonType": "date"},
		},
	},
}

var ServiceValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"provider_profile_id",
			"description",
			"type",
			"tiers",
			"location",
			"city",
			"days_of_operation",
			"start_time",
			"end_time",
			"rating",
			"created_at",
		},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":                 bson.M{"bsonType": "objectId"},
			"provider_profile_id": objectIDHex,
			"description":         bson.M{"bsonType": "string", "minLength": 2, "maxLength": 2000},
			"type":                bson.M{"bsonType": "string"},
			"tiers": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"name", "price", "currency", "description", "characteristics"},
					"properties": bson.M{
						"price":    bson.M{"bsonType": []string{"double", "int", "long"}, "exclusiveMinimum": 0},
						"currency": bson.M{"bsonType": "string", "minLength": 3, "maxLength": 3},
					},
				},
			},
			"location": geoPoint,
			"city":     bson.M{"bsonType": "string", "minLength": 2, "maxLength": 100},
			"days_of_operation": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"maxItems": 7,
				"items":    bson.M{"bsonType": []string{"int", "long"}, "minimum": 0, "maximum": 6},
			},
			"start_time":        bson.M{"bsonType": "string", "pattern": `^([01]\d|2[0-3]):[0-5]\d$`},
			"end_time":          bson.M{"bsonType": "string", "pattern": `^([01]\d|2[0-3]):[0-5]\d$`},
			"time_zone":         bson.M{"bsonType": "string"},
			"photos":            bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
			"rating":            bson.M{"bsonType": []string{"double", "int"}, "minimum": 0, "maximum": 5},
			"liked_by_user_ids": bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
			"created_at":        bson.M{"bsonType": "date"},
		},
	},
}

var RatingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"target_id", "rater_id", "score", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":               bson.M{"bsonType": "objectId"},
			"target_id":         objectIDHex,
			"rater_id":          objectIDHex,
			"score":             bson.M{"bsonType": []string{"int", "long"}, "minimum": 1, "maximum": 5},
			"comment":           bson.M{"bsonType": "string", "maxLength": 1000},
			"liked_by_user_ids": bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
			"created_at":        bson.M{"bsonType": "date"},
		},
	},
}
