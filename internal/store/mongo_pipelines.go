package store

import (
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// channelProfilePipeline aggregates the channel owned by username with its
// subscriber and subscribed-to counts. A nil viewer is never subscribed.
func channelProfilePipeline(username string, viewer *bson.ObjectID) mongo.Pipeline {
	var isSubscribed any = false
	if viewer != nil {
		isSubscribed = bson.D{{Key: "$cond", Value: bson.D{
			{Key: "if", Value: bson.D{{Key: "$in", Value: bson.A{*viewer, "$subscribers.subscriber"}}}},
			{Key: "then", Value: true},
			{Key: "else", Value: false},
		}}}
	}

	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "username", Value: username}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: subscriptionsCollection},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "channel"},
			{Key: "as", Value: "subscribers"},
		}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: subscriptionsCollection},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "subscriber"},
			{Key: "as", Value: "subscribedTo"},
		}}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "subscribersCount", Value: bson.D{{Key: "$size", Value: "$subscribers"}}},
			{Key: "channelsSubscribedToCount", Value: bson.D{{Key: "$size", Value: "$subscribedTo"}}},
			{Key: "isSubscribed", Value: isSubscribed},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "fullName", Value: 1},
			{Key: "username", Value: 1},
			{Key: "email", Value: 1},
			{Key: "avatar", Value: 1},
			{Key: "coverImage", Value: 1},
			{Key: "subscribersCount", Value: 1},
			{Key: "channelsSubscribedToCount", Value: 1},
			{Key: "isSubscribed", Value: 1},
		}}},
	}
}

// watchHistoryPipeline expands the user's watchHistory ids into videos with
// an owner summary, keeping the order of the array. Ids that no longer
// resolve to a video are dropped.
func watchHistoryPipeline(userID bson.ObjectID) mongo.Pipeline {
	ownerLookup := bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: usersCollection},
		{Key: "localField", Value: "owner"},
		{Key: "foreignField", Value: "_id"},
		{Key: "as", Value: "owner"},
		{Key: "pipeline", Value: bson.A{
			bson.D{{Key: "$project", Value: bson.D{
				{Key: "_id", Value: 0},
				{Key: "fullName", Value: 1},
				{Key: "username", Value: 1},
				{Key: "avatar", Value: 1},
			}}},
		}},
	}}}

	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "_id", Value: userID}}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$watchHistory"},
			{Key: "includeArrayIndex", Value: "position"},
		}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: videosCollection},
			{Key: "localField", Value: "watchHistory"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "video"},
			{Key: "pipeline", Value: bson.A{
				ownerLookup,
				bson.D{{Key: "$addFields", Value: bson.D{
					{Key: "owner", Value: bson.D{{Key: "$first", Value: "$owner"}}},
				}}},
			}},
		}}},
		{{Key: "$unwind", Value: "$video"}},
		{{Key: "$sort", Value: bson.D{{Key: "position", Value: 1}}}},
		{{Key: "$replaceRoot", Value: bson.D{{Key: "newRoot", Value: "$video"}}}},
	}
}
