package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"event_id",
			"session_id",
			"motorcycle_id",
			"rider",
			"status",
			"source",
			"session_start",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"event_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"session_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"motorcycle_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"rider": bson.M{
				"bsonType": "object",
				"required": []string{"id", "name", "email"},
				"properties": bson.M{
					"id": bson.M{
						"bsonType": "string",
					},
					"name": bson.M{
						"bsonType":  "string",
						"minLength": 2,
						"maxLength": 100,
					},
					"email": bson.M{
						"bsonType": "string",
					},
					"phone": bson.M{
						"bsonType": "string",
					},
				},
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"RESERVED",
					"CONFIRMED",
					"READY",
					"IN_PROGRESS",
					"COMPLETED",
					"CANCELLED",
					"NO_SHOW",
				},
			},

			"source": bson.M{
				"bsonType": "string",
				"enum": []string{
					"WEB",
					"TABLET",
				},
			},

			"waiver_signed": bson.M{
				"bsonType": "bool",
			},

			"bib_number": bson.M{
				"bsonType":  "string",
				"maxLength": 10,
			},

			"license_photo_url": bson.M{
				"bsonType": "string",
			},

			"session_start": bson.M{
				"bsonType": "date",
			},

			"confirmed_at": bson.M{
				"bsonType": "date",
			},

			"started_at": bson.M{
				"bsonType": "date",
			},

			"completed_at": bson.M{
				"bsonType": "date",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
