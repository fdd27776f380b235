package llm

func BuildImagePrompt() string {
	return `
Analyse this photo of food.
Identify the most likely name of the dish and write a short, appetising
description (at most 2 sentences).
If several foods are visible, describe the main one.

Return ONLY JSON with this exact shape:
{
  "name": "string",
  "description": "string"
}
`
}

func BuildTextPrompt(text string) string {
	return `
The text below lists items of a restaurant menu or a list of dishes.
Extract EVERY food item and return ONLY JSON with this exact shape:
{
  "items": [
    { "name": "Dish name", "description": "Dish description" }
  ]
}
If no description is given, infer a brief one or leave it empty for plain lists.
Ignore irrelevant headers such as dates or general titles.

Text:
` + text
}
