package validators

import "go.mongodb.org/mongo-driver/bson"

var objectIDHex = bson.M{
	"bsonType":  "string",
	"minLength": 24,
	"maxLength": 24,
}

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"user_id",
			"service_id",
			"provider_profile_id",
			"booking_date",
			"status",
			"confirmed",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"user_id":             objectIDHex,
			"service_id":          objectIDHex,
			"provider_profile_id": objectIDHex,

			"booking_date": bson.M{
				"bsonType": "date",
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending",
					"confirmed",
					"cancelled",
					"completed",
				},
			},

			"confirmed": bson.M{
				"bsonType": "bool",
			},

			"notes": bson.M{
				"bsonType":  "string",
				"maxLength": 1000,
			},

			"cancellation": bson.M{
				"bsonType": "object",
				"required": []string{"reason", "by", "cancelled_at"},
				"properties": bson.M{
					"reason":       bson.M{"bsonType": "string", "minLength": 1, "maxLength": 500},
					"by":           bson.M{"bsonType": "string", "enum": []string{"user", "provider"}},
					"cancelled_at": bson.M{"bsonType": "date"},
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var CancelledBookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"booking_id", "reason", "by", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":        bson.M{"bsonType": "objectId"},
			"booking_id": objectIDHex,
			"reason":     bson.M{"bsonType": "string", "minLength": 1, "maxLength": 500},
			"by":         bson.M{"bsonType": "string", "enum": []string{"user", "provider"}},
			"created_at": bson.M{"bsonType": "date"},
		},
	},
}
