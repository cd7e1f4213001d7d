package profile

import (
	"fmt"

	"github.com/arise-hub/hunter-hub/internal/domain/achievement"
	"github.com/arise-hub/hunter-hub/internal/domain/dungeon"
	"github.com/arise-hub/hunter-hub/internal/domain/hunter"
	"github.com/arise-hub/hunter-hub/internal/domain/quest"
	"github.com/arise-hub/hunter-hub/internal/domain/shadow"
	"github.com/arise-hub/hunter-hub/internal/domain/shared"
	"github.com/arise-hub/hunter-hub/internal/domain/skill"
)

// ══════════════════════════════════════════════════════════════════════════════
// SEED TEMPLATES
// Every profile starts from these fixed templates. Template fields are
// immutable after creation; only completion/unlock state mutates.
// ══════════════════════════════════════════════════════════════════════════════

// NewInitialState builds a fresh profile for a new account.
func NewInitialState(accountID, name string) (*State, error) {
	character, err := hunter.NewStartingCharacter(accountID, name)
	if err != nil {
		return nil, err
	}

	quests, err := seedQuests()
	if err != nil {
		return nil, err
	}
	skills, err := seedSkills()
	if err != nil {
		return nil, err
	}
	dungeons, err := seedDungeons()
	if err != nil {
		return nil, err
	}
	achievements, err := SeedAchievements()
	if err != nil {
		return nil, err
	}

	return NewState(accountID, character, quests, skills, []*shadow.Shadow{}, dungeons, achievements)
}

func seedQuests() ([]*quest.Quest, error) {
	params := []quest.NewQuestParams{
		{
			ID: "quest-1", Title: "Morning Workout",
			Description: "Complete a 30-minute workout session",
			Type:        quest.TypeDaily, Difficulty: quest.DifficultyMedium, Experience: 20,
			AttributeBonus: &shared.StatBonus{Stat: shared.StatStrength, Value: 1},
			Icon:           "dumbbell",
		},
		{
			ID: "quest-2", Title: "Read a Book",
			Description: "Read at least 20 pages",
			Type:        quest.TypeDaily, Difficulty: quest.DifficultyEasy, Experience: 15,
			AttributeBonus: &shared.StatBonus{Stat: shared.StatIntelligence, Value: 1},
			Icon:           "book",
		},
		{
			ID: "quest-3", Title: "Meditation Session",
			Description: "Meditate for 10 minutes",
			Type:        quest.TypeDaily, Difficulty: quest.DifficultyEasy, Experience: 10,
			AttributeBonus: &shared.StatBonus{Stat: shared.StatDiscipline, Value: 1},
			Icon:           "lotus",
		},
		{
			ID: "quest-4", Title: "Social Connection",
			Description: "Have a meaningful conversation with someone",
			Type:        quest.TypeDaily, Difficulty: quest.DifficultyMedium, Experience: 15,
			AttributeBonus: &shared.StatBonus{Stat: shared.StatCharisma, Value: 1},
			Icon:           "users",
		},
		{
			ID: "quest-5", Title: "Drink Water",
			Description: "Drink 8 glasses of water",
			Type:        quest.TypeDaily, Difficulty: quest.DifficultyEasy, Experience: 10,
			AttributeBonus: &shared.StatBonus{Stat: shared.StatVitality, Value: 1},
			Icon:           "droplet",
		},
		{
			ID: "quest-6", Title: "No Procrastination",
			Description: "Finish your most important task first",
			Type:        quest.TypeDaily, Difficulty: quest.DifficultyHard, Experience: 25,
			AttributeBonus: &shared.StatBonus{Stat: shared.StatDiscipline, Value: 2},
			Icon:           "target",
		},
		{
			ID: "quest-7", Title: "Learn a New Skill",
			Description: "Spend two hours practicing something new",
			Type:        quest.TypeWeekly, Difficulty: quest.DifficultyMedium, Experience: 30,
			AttributeBonus: &shared.StatBonus{Stat: shared.StatIntelligence, Value: 2},
			Icon:           "sparkles",
		},
		{
			ID: "quest-8", Title: "Morning Run",
			Description: "Run 5 kilometers",
			Type:        quest.TypeWeekly, Difficulty: quest.DifficultyHard, Experience: 40,
			AttributeBonus: &shared.StatBonus{Stat: shared.StatAgility, Value: 2},
			Icon:           "footprints",
		},
		{
			ID: "quest-9", Title: "The First Step",
			Description: "Define a long-term goal and break it into milestones",
			Type:        quest.TypeMain, Difficulty: quest.DifficultyExtreme, Experience: 100,
			Icon:        "flag",
		},
	}

	quests := make([]*quest.Quest, 0, len(params))
	for _, p := range params {
		q, err := quest.NewQuest(p)
		if err != nil {
			return nil, fmt.Errorf("seed quest %s: %w", p.ID, err)
		}
		quests = append(quests, q)
	}
	return quests, nil
}

func seedSkills() ([]*skill.Skill, error) {
	params := []skill.NewSkillParams{
		{
			ID: "iron-will", Name: "Iron Will",
			Description: "Foundation of all discipline",
			Bonus:       shared.StatBonus{Stat: shared.StatDiscipline, Value: 2},
			Icon:        "shield",
		},
		{
			ID: "deep-focus", Name: "Deep Focus",
			Description: "Extended concentration without distraction",
			Prerequisite: "iron-will",
			Bonus:        shared.StatBonus{Stat: shared.StatIntelligence, Value: 2},
			Icon:         "eye",
		},
		{
			ID: "flow-state", Name: "Flow State",
			Description: "Enter deep work on demand",
			Prerequisite: "deep-focus",
			Bonus:        shared.StatBonus{Stat: shared.StatIntelligence, Value: 3},
			Icon:         "waves",
		},
		{
			ID: "early-riser", Name: "Early Riser",
			Description: "Own the first hours of the day",
			Bonus:       shared.StatBonus{Stat: shared.StatVitality, Value: 2},
			Icon:        "sunrise",
		},
		{
			ID: "endurance", Name: "Endurance",
			Description: "Sustained physical output",
			Prerequisite: "early-riser",
			Bonus:        shared.StatBonus{Stat: shared.StatStrength, Value: 2},
			Icon:         "mountain",
		},
		{
			ID: "silver-tongue", Name: "Silver Tongue",
			Description: "Speak with clarity and warmth",
			Bonus:       shared.StatBonus{Stat: shared.StatCharisma, Value: 2},
			Icon:        "message-circle",
		},
	}

	skills := make([]*skill.Skill, 0, len(params))
	for _, p := range params {
		s, err := skill.NewSkill(p)
		if err != nil {
			return nil, fmt.Errorf("seed skill %s: %w", p.ID, err)
		}
		skills = append(skills, s)
	}

	if err := skill.ValidateTree(skills); err != nil {
		return nil, err
	}
	return skills, nil
}

func seedDungeons() ([]*dungeon.Dungeon, error) {
	params := []dungeon.NewDungeonParams{
		{
			ID: "dungeon-e", Name: "Training Grounds",
			Description: "A week of unbroken daily quests",
			Difficulty:  shared.RankE, Experience: 100,
			Locked: false, SuccessorID: "dungeon-d",
			Rewards: dungeon.Rewards{Experience: 100},
		},
		{
			ID: "dungeon-d", Name: "The Cold Shower Trials",
			Description: "Thirty days of deliberate discomfort",
			Difficulty:  shared.RankD, Experience: 200,
			Locked: true, SuccessorID: "dungeon-c",
			Requirements: dungeon.Requirements{Level: 5},
			Rewards:      dungeon.Rewards{Experience: 200},
		},
		{
			ID: "dungeon-c", Name: "Marathon Gate",
			Description: "Train for and finish a half marathon",
			Difficulty:  shared.RankC, Experience: 350,
			Locked: true, SuccessorID: "dungeon-b",
			Requirements: dungeon.Requirements{
				Level: 10,
				Stats: map[shared.StatType]int{shared.StatStrength: 15, shared.StatVitality: 15},
			},
			Rewards: dungeon.Rewards{Experience: 350, Items: []string{"runner's badge"}},
		},
		{
			ID: "dungeon-b", Name: "The Silent Tower",
			Description: "A ten-day meditation retreat",
			Difficulty:  shared.RankB, Experience: 500,
			Locked: true, SuccessorID: "dungeon-a",
			Requirements: dungeon.Requirements{
				Level: 20,
				Stats: map[shared.StatType]int{shared.StatDiscipline: 20},
			},
			Rewards: dungeon.Rewards{Experience: 500},
		},
		{
			ID: "dungeon-a", Name: "Master's Proving",
			Description: "Teach your craft to another person",
			Difficulty:  shared.RankA, Experience: 750,
			Locked: true, SuccessorID: "dungeon-s",
			Requirements: dungeon.Requirements{
				Level: 30,
				Stats: map[shared.StatType]int{shared.StatCharisma: 20, shared.StatIntelligence: 20},
			},
			Rewards: dungeon.Rewards{Experience: 750, Items: []string{"mentor's seal"}},
		},
		{
			ID: "dungeon-s", Name: "The Monarch's Gate",
			Description: "A year of consistent growth across every attribute",
			Difficulty:  shared.RankS, Experience: 1000,
			Locked: true,
			Requirements: dungeon.Requirements{Level: 50},
			Rewards:      dungeon.Rewards{Experience: 1000, Items: []string{"monarch's crown"}},
		},
	}

	dungeons := make([]*dungeon.Dungeon, 0, len(params))
	for _, p := range params {
		d, err := dungeon.NewDungeon(p)
		if err != nil {
			return nil, fmt.Errorf("seed dungeon %s: %w", p.ID, err)
		}
		dungeons = append(dungeons, d)
	}

	if err := dungeon.ValidateChain(dungeons); err != nil {
		return nil, err
	}
	return dungeons, nil
}

// SeedAchievements returns the full achievement catalog. Exported because the
// evaluator query needs the catalog even for profiles stored before new
// achievements were added.
func SeedAchievements() ([]*achievement.Achievement, error) {
	params := []achievement.NewAchievementParams{
		{
			ID: "first-quest", Title: "First Steps",
			Description: "Complete your first quest",
			Category:    achievement.CategoryQuests, Rarity: achievement.RarityCommon,
			Requirement: achievement.Requirement{Type: achievement.RequirementQuestsCompleted, Value: 1},
			Rewards:     achievement.Rewards{Experience: 50, Badge: "first-steps"},
		},
		{
			ID: "quest-adept", Title: "Quest Adept",
			Description: "Complete 10 quests",
			Category:    achievement.CategoryQuests, Rarity: achievement.RarityRare,
			Requirement: achievement.Requirement{Type: achievement.RequirementQuestsCompleted, Value: 10},
			Rewards:     achievement.Rewards{Experience: 150},
		},
		{
			ID: "quest-master", Title: "Quest Master",
			Description: "Complete 50 quests",
			Category:    achievement.CategoryQuests, Rarity: achievement.RarityEpic,
			Requirement: achievement.Requirement{Type: achievement.RequirementQuestsCompleted, Value: 50},
			Rewards:     achievement.Rewards{Experience: 500, Title: "Quest Master"},
		},
		{
			ID: "level-10", Title: "Rising Hunter",
			Description: "Reach level 10",
			Category:    achievement.CategoryLevel, Rarity: achievement.RarityCommon,
			Requirement: achievement.Requirement{Type: achievement.RequirementLevel, Value: 10},
			Rewards:     achievement.Rewards{Experience: 200},
		},
		{
			ID: "level-25", Title: "Seasoned Hunter",
			Description: "Reach level 25",
			Category:    achievement.CategoryLevel, Rarity: achievement.RarityRare,
			Requirement: achievement.Requirement{Type: achievement.RequirementLevel, Value: 25},
			Rewards:     achievement.Rewards{Experience: 400},
		},
		{
			ID: "level-50", Title: "Shadow Monarch",
			Description: "Reach level 50",
			Category:    achievement.CategoryLevel, Rarity: achievement.RarityLegendary,
			Requirement: achievement.Requirement{Type: achievement.RequirementLevel, Value: 50},
			Rewards:     achievement.Rewards{Experience: 1000, Title: "Shadow Monarch"},
		},
		{
			ID: "first-skill", Title: "Awakening",
			Description: "Unlock your first skill",
			Category:    achievement.CategorySkills, Rarity: achievement.RarityCommon,
			Requirement: achievement.Requirement{Type: achievement.RequirementSkillsUnlocked, Value: 1},
			Rewards:     achievement.Rewards{Experience: 50},
		},
		{
			ID: "skill-tree-complete", Title: "Fully Awakened",
			Description: "Unlock every skill in the tree",
			Category:    achievement.CategorySkills, Rarity: achievement.RarityEpic,
			Requirement: achievement.Requirement{Type: achievement.RequirementAllSkillsUnlocked, Value: 1},
			Rewards:     achievement.Rewards{Experience: 600, Badge: "awakened"},
		},
		{
			ID: "first-shadow", Title: "Shadow Extraction",
			Description: "Extract your first shadow",
			Category:    achievement.CategoryShadows, Rarity: achievement.RarityCommon,
			Requirement: achievement.Requirement{Type: achievement.RequirementShadowsExtracted, Value: 1},
			Rewards:     achievement.Rewards{Experience: 75},
		},
		{
			ID: "shadow-army", Title: "Shadow Army",
			Description: "Command 5 shadows",
			Category:    achievement.CategoryShadows, Rarity: achievement.RarityEpic,
			Requirement: achievement.Requirement{Type: achievement.RequirementShadowsExtracted, Value: 5},
			Rewards:     achievement.Rewards{Experience: 400, Badge: "shadow-army"},
		},
		{
			ID: "first-dungeon", Title: "Gate Breaker",
			Description: "Clear your first dungeon",
			Category:    achievement.CategoryDungeons, Rarity: achievement.RarityRare,
			Requirement: achievement.Requirement{Type: achievement.RequirementDungeonsCompleted, Value: 1},
			Rewards:     achievement.Rewards{Experience: 150},
		},
		{
			ID: "dungeon-conqueror", Title: "Conqueror of Gates",
			Description: "Clear every dungeon",
			Category:    achievement.CategoryDungeons, Rarity: achievement.RarityLegendary,
			Requirement: achievement.Requirement{Type: achievement.RequirementAllDungeonsCleared, Value: 1},
			Rewards:     achievement.Rewards{Experience: 1500, Title: "Conqueror"},
		},
		{
			ID: "daily-warrior", Title: "Daily Warrior",
			Description: "Keep a 7-day daily quest streak",
			Category:    achievement.CategoryConsistency, Rarity: achievement.RarityRare,
			Requirement: achievement.Requirement{Type: achievement.RequirementDailyStreak, Value: 7},
			Rewards:     achievement.Rewards{Experience: 300},
		},
		{
			ID: "early-bird", Title: "Early Bird",
			Description: "Complete a quest before 7 AM",
			Category:    achievement.CategoryConsistency, Rarity: achievement.RarityRare,
			Hidden:      true,
			Requirement: achievement.Requirement{Type: achievement.RequirementEarlyQuest, Value: 1},
			Rewards:     achievement.Rewards{Experience: 100},
		},
	}

	achievements := make([]*achievement.Achievement, 0, len(params))
	for _, p := range params {
		a, err := achievement.NewAchievement(p)
		if err != nil {
			return nil, fmt.Errorf("seed achievement %s: %w", p.ID, err)
		}
		achievements = append(achievements, a)
	}
	return achievements, nil
}
