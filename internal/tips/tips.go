package tips

import (
	"errors"
	"time"
)

var ErrNoTips = errors.New("no health tips available")

type Tip struct {
	ID        int       `json:"id"`
	Category  string    `json:"category"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// seedTips is the starting set, loaded into an empty table on startup.
var seedTips = []Tip{
	{Category: "hydration", Content: "Start your day with a glass of water before anything else"},
	{Category: "hydration", Content: "Keep a water bottle within reach, you will drink more without thinking about it"},
	{Category: "hydration", Content: "Drink a glass of water with every meal and snack"},
	{Category: "activity", Content: "Short walks after meals help digestion and add up towards your step goal"},
	{Category: "activity", Content: "Take the stairs when you can, every flight counts"},
	{Category: "sleep", Content: "Going to bed at the same time every night improves sleep quality"},
	{Category: "sleep", Content: "Avoid screens for half an hour before sleeping"},
	{Category: "general", Content: "Small consistent habits beat occasional big efforts"},
}
