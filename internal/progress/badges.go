package progress

// Badge catalog. IDs are stable: they are stored in user_badges rows and
// sent to clients, so renaming an ID would orphan earned badges.
var Badges = []Badge{
	{ID: "first_question", Name: "First Steps", Description: "Answer your first question", Icon: "🎯"},
	{ID: "ten_correct", Name: "Getting Warm", Description: "Answer 10 questions correctly", Icon: "🔥"},
	{ID: "fifty_correct", Name: "Half Century", Description: "Answer 50 questions correctly", Icon: "🏏"},
	{ID: "streak_5", Name: "On a Roll", Description: "Answer 5 questions correctly in a row", Icon: "⚡"},
	{ID: "streak_10", Name: "Dedicated", Description: "Answer 10 questions correctly in a row", Icon: "💪"},
	{ID: "streak_20", Name: "Unstoppable", Description: "Answer 20 questions correctly in a row", Icon: "🚀"},
	{ID: "first_hint", Name: "Asking for Directions", Description: "Use your first hint", Icon: "💡"},
	{ID: "xp_1000", Name: "Scholar", Description: "Earn 1000 XP", Icon: "🎓"},
	{ID: "sharp_shooter", Name: "Sharp Shooter", Description: "Reach 90% accuracy over 20+ questions", Icon: "🎯"},
}

var badgeByID = func() map[string]Badge {
	m := make(map[string]Badge, len(Badges))
	for _, b := range Badges {
		m[b.ID] = b
	}
	return m
}()

// BadgeByID looks up a catalog entry. ok is false for retired or unknown IDs.
func BadgeByID(id string) (Badge, bool) {
	b, ok := badgeByID[id]
	return b, ok
}

// EarnedBadges returns the catalog IDs the given lifetime statistics
// qualify for right now. Awarding is one-way: a badge once granted is never
// revoked even if a non-monotone condition (accuracy) later drops below its
// threshold.
func EarnedBadges(s *UserStatistics) []string {
	var ids []string
	award := func(ok bool, id string) {
		if ok {
			ids = append(ids, id)
		}
	}

	award(s.QuestionsAttempted >= 1, "first_question")
	award(s.QuestionsCorrect >= 10, "ten_correct")
	award(s.QuestionsCorrect >= 50, "fifty_correct")
	award(s.LongestStreak >= 5, "streak_5")
	award(s.LongestStreak >= 10, "streak_10")
	award(s.LongestStreak >= 20, "streak_20")
	award(s.HintsUsed >= 1, "first_hint")
	award(s.TotalXP >= 1000, "xp_1000")
	award(s.QuestionsAttempted >= 20 && s.Accuracy() >= 0.9, "sharp_shooter")

	return ids
}
