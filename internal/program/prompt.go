package program

import "fmt"

// buildWorkoutPrompt はトレーニングプラン生成のプロンプトを構築する。
// 補完サービスはJSON形式のみを強制し、スキーマ自体は強制しないため、
// 数値フィールド制約と許可フィールドの制約はプロンプト側で明示する。
func buildWorkoutPrompt(req *Request) string {
	return fmt.Sprintf(`You are an experienced fitness coach creating a personalized workout plan based on:
Age: %s
Gender: %s
Height: %s
Weight: %s
Injuries or limitations: %s
Available days for workout: %s
Fitness goal: %s
Fitness level: %s

As a professional coach:
- Consider muscle group splits to avoid overtraining the same muscles on consecutive days
- Design exercises that match the fitness level and account for any injuries
- Structure the workouts to specifically target the user's fitness goal

CRITICAL SCHEMA INSTRUCTIONS:
- Your output MUST contain ONLY the fields specified below, NO ADDITIONAL FIELDS
- "sets" and "reps" MUST ALWAYS be NUMBERS, never strings
- For example: "sets": 3, "reps": 10
- Do NOT use text like "reps": "As many as possible" or "reps": "To failure"
- Instead use specific numbers like "reps": 12 or "reps": 15
- For cardio, use "sets": 1, "reps": 1 or another appropriate number
- NEVER include strings for numerical fields
- NEVER add extra fields not shown in the example below

Return a JSON object with this EXACT structure:
{
  "schedule": ["Monday", "Wednesday", "Friday"],
  "exercises": [
    {
      "day": "Monday",
      "routines": [
        {
          "name": "Exercise Name",
          "sets": 3,
          "reps": 10
        }
      ]
    }
  ]
}

DO NOT add any fields that are not in this example. Your response must be a valid JSON object with no additional text.`,
		req.Age, req.Gender, req.Height, req.Weight,
		req.Injuries, req.WorkoutDays, req.FitnessGoal, req.FitnessLevel,
	)
}

// buildDietPrompt は食事プラン生成のプロンプトを構築する。
// 同じ身体属性に加えて食事制限を埋め込む。
func buildDietPrompt(req *Request) string {
	return fmt.Sprintf(`You are an experienced nutrition coach creating a personalized diet plan based on:
Age: %s
Gender: %s
Height: %s
Weight: %s
Fitness goal: %s
Dietary restrictions: %s

As a professional nutrition coach:
- Calculate appropriate daily calorie intake based on the person's stats and goals
- Create a balanced meal plan with proper macronutrient distribution
- Include a variety of nutrient-dense foods while respecting dietary restrictions
- Consider meal timing around workouts for optimal performance and recovery

CRITICAL SCHEMA INSTRUCTIONS:
- Your output MUST contain ONLY the fields specified below, NO ADDITIONAL FIELDS
- "dailyCalories" MUST be a NUMBER, not a string
- DO NOT add fields like "supplements", "macros", "notes", or ANYTHING else
- ONLY include the EXACT fields shown in the example below
- Each meal should include ONLY a "name" and "foods" array

Return a JSON object with this EXACT structure and no other fields:
{
  "dailyCalories": 2000,
  "meals": [
    {
      "name": "Breakfast",
      "foods": ["Oatmeal with berries", "Greek yogurt", "Black coffee"]
    },
    {
      "name": "Lunch",
      "foods": ["Grilled chicken salad", "Whole grain bread", "Water"]
    }
  ]
}

DO NOT add any fields that are not in this example. Your response must be a valid JSON object with no additional text.`,
		req.Age, req.Gender, req.Height, req.Weight,
		req.FitnessGoal, req.DietaryRestrictions,
	)
}
