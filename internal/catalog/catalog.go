// internal/catalog/catalog.go
package catalog

import (
	"github.com/niceai/studio-backend/internal/models"
)

// Currency and reward constants.
const (
	InitialPoints       = 1000
	ReferralBonusPoints = 500
	GenerationCost      = 10
	RoyaltyGold         = 50
	GoldToCNYRate       = 10
	PointsPerCNY        = 10

	MaxReferenceImages = 5
)

// OptionValue is one selectable choice on a custom option. A missing delta
// means no surcharge.
type OptionValue struct {
	Name           string  `json:"name"`
	Value          string  `json:"value"`
	ExtraPrice     float64 `json:"extra_price,omitempty"`
	ExtraLeadTime  int     `json:"extra_lead_time,omitempty"`
	Description    string  `json:"description,omitempty"`
}

// CustomOption is one configurable axis of a category. The first value is
// the implicit default.
type CustomOption struct {
	Label  string            `json:"label"`
	Key    string            `json:"key"`
	Kind   models.OptionKind `json:"kind"`
	Values []OptionValue     `json:"values"`
}

// CategoryInfo is static reference data, never mutated at runtime.
type CategoryInfo struct {
	ID           models.Category `json:"id"`
	Name         string          `json:"name"`
	Icon         string          `json:"icon"`
	BasePrice    float64         `json:"base_price"`
	BaseLeadTime int             `json:"base_lead_time"`
	Description  string          `json:"description"`
	AspectRatio  string          `json:"aspect_ratio"`
	Options      []CustomOption  `json:"options"`
}

// DesignStyle is a preset that decorates the generation prompt.
type DesignStyle struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	PromptSuffix string `json:"prompt_suffix"`
}

var categories = []CategoryInfo{
	{
		ID:           models.CategoryMousepad,
		Name:         "鼠标垫",
		Icon:         "🖱️",
		BasePrice:    49.0,
		BaseLeadTime: 2,
		Description:  "专业电竞级布面，精准操控",
		AspectRatio:  "16:9",
		Options: []CustomOption{
			{
				Label: "选定材质", Key: "fabric", Kind: models.OptionKindSelect,
				Values: []OptionValue{
					{Name: "粗面操控", Value: "control", Description: "精准定位"},
					{Name: "细面滑快", Value: "speed", ExtraPrice: 15, ExtraLeadTime: 1, Description: "极速移动"},
				},
			},
			{
				Label: "工业规格", Key: "size", Kind: models.OptionKindSize,
				Values: []OptionValue{
					{Name: "300x250mm", Value: "S"},
					{Name: "900x400mm", Value: "XL", ExtraPrice: 40, ExtraLeadTime: 1},
				},
			},
		},
	},
	{
		ID:           models.CategoryPhoneCase,
		Name:         "手机壳",
		Icon:         "📱",
		BasePrice:    39.0,
		BaseLeadTime: 3,
		Description:  "液态硅胶，全包防摔",
		AspectRatio:  "9:19",
		Options: []CustomOption{
			{
				Label: "适配机型", Key: "model", Kind: models.OptionKindSelect,
				Values: []OptionValue{
					{Name: "iPhone 15 Pro", Value: "i15p"},
					{Name: "Mate 60", Value: "m60", ExtraPrice: 5},
				},
			},
			{
				Label: "外壳材质", Key: "material", Kind: models.OptionKindSelect,
				Values: []OptionValue{
					{Name: "磨砂亲肤", Value: "matte"},
					{Name: "钢化玻璃", Value: "glass", ExtraPrice: 20, ExtraLeadTime: 2},
				},
			},
		},
	},
	{
		ID:           models.CategoryTShirt,
		Name:         "个性T恤",
		Icon:         "👕",
		BasePrice:    129.0,
		BaseLeadTime: 4,
		Description:  "100% 纯棉，高支克重，柔软透气",
		AspectRatio:  "1:1",
		Options: []CustomOption{
			{
				Label: "选定基础色", Key: "color", Kind: models.OptionKindColor,
				Values: []OptionValue{
					{Name: "云雾白", Value: "white"},
					{Name: "暗夜黑", Value: "black", ExtraPrice: 10},
					{Name: "活力橙", Value: "orange", ExtraPrice: 15},
				},
			},
			{
				Label: "面料规格", Key: "fabric", Kind: models.OptionKindFabric,
				Values: []OptionValue{
					{Name: "重磅纯棉", Value: "cotton_heavy", ExtraLeadTime: 1, Description: "260g / 挺括"},
					{Name: "凉感科技", Value: "dry_fit", ExtraPrice: 35, ExtraLeadTime: 2, Description: "吸湿排汗"},
				},
			},
			{
				Label: "尺寸码数", Key: "size", Kind: models.OptionKindSize,
				Values: []OptionValue{
					{Name: "M", Value: "M"},
					{Name: "L", Value: "L"},
					{Name: "XL", Value: "XL", ExtraPrice: 5},
					{Name: "XXL", Value: "XXL", ExtraPrice: 10},
				},
			},
		},
	},
	{
		ID:           models.CategoryBedding,
		Name:         "床品",
		Icon:         "🛏️",
		BasePrice:    599.0,
		BaseLeadTime: 7,
		Description:  "60支长绒棉，五星级酒店肤感",
		AspectRatio:  "1:1",
		Options: []CustomOption{
			{
				Label: "面料", Key: "fabric", Kind: models.OptionKindSelect,
				Values: []OptionValue{
					{Name: "长绒棉", Value: "cotton"},
					{Name: "真丝缎面", Value: "silk", ExtraPrice: 300, ExtraLeadTime: 5},
				},
			},
			{
				Label: "规格", Key: "spec", Kind: models.OptionKindSize,
				Values: []OptionValue{
					{Name: "1.5m三件套", Value: "1.5"},
					{Name: "1.8m四件套", Value: "1.8", ExtraPrice: 150, ExtraLeadTime: 1},
				},
			},
		},
	},
}

var designStyles = []DesignStyle{
	{ID: "minimal", Name: "极简主义", PromptSuffix: "Modern minimalist scandinavian style, clean lines, high-end white background flat vector art"},
	{ID: "cyber", Name: "赛博朋克", PromptSuffix: "Cyberpunk aesthetic, neon high-contrast, futuristic glitch textures, digital noir"},
	{ID: "y2k", Name: "Y2K时尚", PromptSuffix: "Y2K retro-futurism, 2000s glossy plastic aesthetic, chrome accents, bright pop colors"},
	{ID: "guochao", Name: "潮牌国风", PromptSuffix: "Modern Chinese street culture style, \"Guochao\" aesthetic, traditional ink-wash meets hip-hop graphic art"},
	{ID: "gorpcore", Name: "山系户外", PromptSuffix: "Gorpcore outdoor aesthetic, topographic patterns, earthy nature tones, tech-wear texture"},
	{ID: "clay", Name: "3D立体", PromptSuffix: "3D isometric clay render, C4D style, soft rounded volumes, professional product photography lighting"},
}

// All returns every category in catalog order.
func All() []CategoryInfo {
	return categories
}

// Get looks up a category by id.
func Get(id models.Category) (CategoryInfo, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return CategoryInfo{}, false
}

// Styles returns the design style presets.
func Styles() []DesignStyle {
	return designStyles
}

// StyleByID looks up a style preset; ok is false for unknown ids.
func StyleByID(id string) (DesignStyle, bool) {
	for _, s := range designStyles {
		if s.ID == id {
			return s, true
		}
	}
	return DesignStyle{}, false
}

// DefaultSpecs returns the implicit default selection for a category: the
// first value of every option.
func (c CategoryInfo) DefaultSpecs() map[string]string {
	specs := make(map[string]string, len(c.Options))
	for _, opt := range c.Options {
		if len(opt.Values) > 0 {
			specs[opt.Key] = opt.Values[0].Value
		}
	}
	return specs
}

// FindOption looks up an option by key.
func (c CategoryInfo) FindOption(key string) (CustomOption, bool) {
	for _, opt := range c.Options {
		if opt.Key == key {
			return opt, true
		}
	}
	return CustomOption{}, false
}

// FindValue looks up a value within an option.
func (o CustomOption) FindValue(value string) (OptionValue, bool) {
	for _, v := range o.Values {
		if v.Value == value {
			return v, true
		}
	}
	return OptionValue{}, false
}
