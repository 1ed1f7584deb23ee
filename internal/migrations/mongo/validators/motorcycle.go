package validators

import "go.mongodb.org/mongo-driver/bson"

var MotorcycleValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"model",
			"group",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"model": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"group": bson.M{
				"bsonType": "string",
				"enum": []string{
					"GROUP_1",
					"GROUP_2",
				},
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"AVAILABLE",
					"MAINTENANCE",
					"DAMAGED",
					"UNAVAILABLE",
				},
			},

			"event_ids": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType":  "string",
					"minLength": 24,
					"maxLength": 24,
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var BreakdownReportValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"motorcycle_id",
			"problem",
			"description",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"motorcycle_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"problem": bson.M{
				"bsonType": "string",
				"enum": []string{
					"CRASH",
					"MECHANICAL",
					"OTHER",
				},
			},

			"description": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 1000,
			},

			"photo_url": bson.M{
				"bsonType": "string",
			},

			"block_future_bookings": bson.M{
				"bsonType": "bool",
			},

			"new_status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"",
					"MAINTENANCE",
					"DAMAGED",
					"UNAVAILABLE",
				},
			},

			"reported_by": bson.M{
				"bsonType": "string",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
