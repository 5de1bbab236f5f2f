// Package ai implements the gateway to the external multimodal
// completion provider: composing language-tagged prompts, calling the
// chat-completions endpoint, and degrading to per-language fallback
// answers when the provider is unreachable.
package ai

import (
	"os"
	"strconv"
	"time"

	"github.com/agrimitra/farmer-assist/internal/model"
)

// Config holds settings for the AI gateway. The per-language tables
// are loaded once at process start and injected here rather than
// living as mutable package globals, so tests can swap them freely.
type Config struct {
	// BaseURL is the provider's API root, e.g. https://openrouter.ai/api/v1
	BaseURL string
	// APIKey is the bearer credential for the provider.
	APIKey string
	// Model is the multimodal model identifier.
	Model string
	// MaxTokens bounds the response length.
	MaxTokens int
	// Temperature is the fixed sampling temperature.
	Temperature float64
	// Timeout is the per-request timeout; when it fires the fallback
	// path answers instead.
	Timeout time.Duration

	// Instructions maps a language tag to the system instruction sent
	// with every request in that language.
	Instructions map[string]string
	// Fallbacks maps a language tag to the static answer returned when
	// the provider cannot produce one.
	Fallbacks map[string]string
	// DefaultQuestions maps a language tag to the substitute question
	// used for image-only submissions.
	DefaultQuestions map[string]string
}

// DefaultConfig returns the gateway defaults, including the full
// multilingual instruction/fallback/default-question tables.
func DefaultConfig() Config {
	return Config{
		BaseURL:          "https://openrouter.ai/api/v1",
		Model:            "gpt-4o-mini",
		MaxTokens:        1000,
		Temperature:      0.7,
		Timeout:          20 * time.Second,
		Instructions:     languageInstructions,
		Fallbacks:        fallbackMessages,
		DefaultQuestions: imageDefaultQuestions,
	}
}

// LoadConfig builds a Config from AI_* environment variables on top of
// the defaults. Only AI_API_KEY has no default.
func LoadConfig() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("AI_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	cfg.APIKey = os.Getenv("AI_API_KEY")
	if v := os.Getenv("AI_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("AI_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxTokens = n
		}
	}
	if v := os.Getenv("AI_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Temperature = f
		}
	}
	if v := os.Getenv("AI_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	return cfg
}

// instruction returns the system instruction for the language,
// degrading to english for unrecognized tags.
func (c Config) instruction(lang string) string {
	if s, ok := c.Instructions[lang]; ok {
		return s
	}
	return c.Instructions[model.LangEnglish]
}

// fallback returns the static answer for the language, degrading to
// english for unrecognized tags.
func (c Config) fallback(lang string) string {
	if s, ok := c.Fallbacks[lang]; ok {
		return s
	}
	return c.Fallbacks[model.LangEnglish]
}

// defaultQuestion returns the substitute question used for image-only
// submissions in the given language.
func (c Config) defaultQuestion(lang string) string {
	if s, ok := c.DefaultQuestions[lang]; ok {
		return s
	}
	return c.DefaultQuestions[model.LangEnglish]
}

var languageInstructions = map[string]string{
	model.LangEnglish:   "You are a helpful farming assistant. Answer in English suitable for farmers. Provide practical, actionable advice.",
	model.LangMalayalam: "നിങ്ങൾ ഒരു സഹായകരമായ കൃഷി സഹായിയാണ്. കർഷകർക്ക് അനുയോജ്യമായ മലയാളത്തിൽ ഉത്തരം നൽകുക. പ്രായോഗികവും പ്രവർത്തനക്ഷമവുമായ ഉപദേശം നൽകുക.",
	model.LangHindi:     "आप एक सहायक कृषि सहायक हैं। किसानों के लिए उपयुक्त हिंदी में उत्तर दें। व्यावहारिक, कार्यान्वित करने योग्य सलाह दें।",
	model.LangTamil:     "நீங்கள் ஒரு உதவிகரமான விவசாய உதவியாளர். விவசாயிகளுக்கு ஏற்ற தமிழில் பதில் அளிக்கவும். நடைமுறை, செயல்படுத்தக்கூடிய ஆலோசனையை வழங்கவும்.",
	model.LangOdia:      "ଆପଣ ଜଣେ ସହାୟକ କୃଷି ସହାୟକ। କୃଷକମାନଙ୍କ ପାଇଁ ଉପଯୁକ୍ତ ଓଡ଼ିଆରେ ଉତ୍ତର ଦିଅନ୍ତୁ। ବ୍ୟବହାରିକ, କାର୍ଯ୍ୟକ୍ଷମ ପରାମର୍ଶ ପ୍ରଦାନ କରନ୍ତୁ।",
}

var fallbackMessages = map[string]string{
	model.LangEnglish:   "I apologize, but I'm having trouble processing your request right now. Please try again later or contact your local agriculture officer for assistance.",
	model.LangMalayalam: "ക്ഷമിക്കുക, നിലവിൽ നിങ്ങളുടെ അഭ്യർത്ഥന പ്രോസസ് ചെയ്യുന്നതിൽ എനിക്ക് പ്രശ്നമുണ്ട്. ദയവായി പിന്നീട് വീണ്ടും ശ്രമിക്കുക അല്ലെങ്കിൽ സഹായത്തിനായി നിങ്ങളുടെ പ്രാദേശിക കൃഷി ഓഫീസറെ ബന്ധപ്പെടുക.",
	model.LangHindi:     "क्षमा करें, मुझे अभी आपके अनुरोध को संसाधित करने में समस्या हो रही है। कृपया बाद में पुनः प्रयास करें या सहायता के लिए अपने स्थानीय कृषि अधिकारी से संपर्क करें।",
	model.LangTamil:     "மன்னிக்கவும், தற்போது உங்கள் கோரிக்கையைச் செயலாக்குவதில் எனக்குச் சிக்கல் உள்ளது. தயவுசெய்து பின்னர் மீண்டும் முயற்சிக்கவும் அல்லது உதவிக்காக உங்கள் உள்ளூர் விவசாய அதிகாரியைத் தொடர்பு கொள்ளவும்.",
	model.LangOdia:      "କ୍ଷମା କରନ୍ତୁ, ବର୍ତ୍ତମାନ ଆପଣଙ୍କ ଅନୁରୋଧ ପ୍ରକ୍ରିୟାକରଣରେ ମୋର ସମସ୍ୟା ହେଉଛି। ଦୟାକରି ପରେ ପୁନର୍ବାର ଚେଷ୍ଟା କରନ୍ତୁ କିମ୍ବା ସହାୟତା ପାଇଁ ଆପଣଙ୍କର ସ୍ଥାନୀୟ କୃଷି ଅଧିକାରୀଙ୍କ ସହିତ ଯୋଗାଯୋଗ କରନ୍ତୁ।",
}

var imageDefaultQuestions = map[string]string{
	model.LangEnglish:   "Please analyze this farming-related image and provide detailed advice about what you see. Include information about crop health, pest identification, disease diagnosis, soil conditions, or any other relevant farming insights.",
	model.LangMalayalam: "ഈ കൃഷിയുമായി ബന്ധപ്പെട്ട ചിത്രം വിശകലനം ചെയ്ത് നിങ്ങൾ കാണുന്നതിനെക്കുറിച്ച് വിശദമായ ഉപദേശം നൽകുക. വിള ആരോഗ്യം, കീട തിരിച്ചറിയൽ, രോഗനിർണയം, മണ്ണിന്റെ അവസ്ഥ, അല്ലെങ്കിൽ മറ്റേതെങ്കിലും പ്രസക്തമായ കൃഷി ഉൾക്കാഴ്ചകൾ എന്നിവ ഉൾപ്പെടുത്തുക.",
	model.LangHindi:     "कृपया इस कृषि-संबंधी छवि का विश्लेषण करें और आप जो देखते हैं उसके बारे में विस्तृत सलाह प्रदान करें। फसल स्वास्थ्य, कीट पहचान, रोग निदान, मिट्टी की स्थिति, या कोई अन्य प्रासंगिक कृषि जानकारी शामिल करें।",
	model.LangTamil:     "இந்த விவசாயம் தொடர்பான படத்தை பகுப்பாய்வு செய்து, நீங்கள் பார்ப்பதைப் பற்றி விரிவான ஆலோசனை வழங்கவும். பயிர் ஆரோக்யம், பூச்சி அடையாளம், நோய் கண்டறிதல், மண் நிலைமைகள் அல்லது வேறு ஏதேனும் தொடர்புடைய விவசாய நுண்ணறிவுகளை சேர்க்கவும்.",
	model.LangOdia:      "ଦୟାକରି ଏହି କୃଷି ସମ୍ବନ୍ଧୀୟ ଛବିକୁ ବିଶ୍ଳେଷଣ କରନ୍ତୁ ଏବଂ ଆପଣ ଯାହା ଦେଖୁଛନ୍ତି ସେ ବିଷୟରେ ବିସ୍ତୃତ ପରାମର୍ଶ ପ୍ରଦାନ କରନ୍ତୁ। ଫସଲ ସ୍ୱାସ୍ଥ୍ୟ, କୀଟ ଚିହ୍ନଟ, ରୋଗ ନିର୍ଣ୍ଣୟ, ମାଟି ଅବସ୍ଥା, କିମ୍ବା ଅନ୍ୟ କୌଣସି ସମ୍ବନ୍ଧୀତ କୃଷି ଜ୍ଞାନ ଅନ୍ତର୍ଭୁକ୍ତ କରନ୍ତୁ।",
}
