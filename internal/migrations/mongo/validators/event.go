package validators

import "go.mongodb.org/mongo-driver/bson"

var EventValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"start_date",
			"end_date",
			"address",
			"max_slots_per_session",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"start_date": bson.M{
				"bsonType": "date",
			},

			"end_date": bson.M{
				"bsonType": "date",
			},

			"address": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 200,
			},

			"latitude": bson.M{
				"bsonType": "double",
				"minimum":  -90,
				"maximum":  90,
			},

			"longitude": bson.M{
				"bsonType": "double",
				"minimum":  -180,
				"maximum":  180,
			},

			"max_slots_per_session": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  200,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
