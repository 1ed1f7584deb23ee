package validators

import "go.mongodb.org/mongo-driver/bson"

var SessionValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"event_id",
			"start_time",
			"end_time",
			"group",
			"available_slots",
			"booked_slots",
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

			"start_time": bson.M{
				"bsonType": "date",
			},

			"end_time": bson.M{
				"bsonType": "date",
			},

			"group": bson.M{
				"bsonType": "string",
				"enum": []string{
					"GROUP_1",
					"GROUP_2",
				},
			},

			"available_slots": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  200,
			},

			"booked_slots": bson.M{
				"bsonType": "int",
				"minimum":  0,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
