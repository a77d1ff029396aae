package extractor

// Lexicones minimos por categoria. Suficientes para ratios agregados; no se
// pretende NLP general. Incluyen variantes en ingles y espanol porque el feed
// de interacciones llega en ambos idiomas.

var positiveWords = map[string]struct{}{
	"great": {}, "good": {}, "excellent": {}, "thanks": {}, "thank": {},
	"awesome": {}, "love": {}, "happy": {}, "perfect": {}, "nice": {},
	"congrats": {}, "congratulations": {}, "well": {}, "appreciate": {},
	"gracias": {}, "excelente": {}, "genial": {}, "perfecto": {}, "bien": {},
}

var negativeWords = map[string]struct{}{
	"bad": {}, "wrong": {}, "problem": {}, "issue": {}, "hate": {},
	"angry": {}, "terrible": {}, "fail": {}, "failed": {}, "blocked": {},
	"frustrated": {}, "worried": {}, "late": {}, "broken": {}, "never": {},
	"mal": {}, "problema": {}, "error": {}, "molesto": {}, "preocupado": {},
}

var formalMarkers = map[string]struct{}{
	"regards": {}, "sincerely": {}, "dear": {}, "please": {}, "kindly": {},
	"attached": {}, "pursuant": {}, "hereby": {}, "estimado": {}, "estimada": {},
	"saludos": {}, "cordialmente": {}, "atentamente": {}, "adjunto": {},
}

var informalMarkers = map[string]struct{}{
	"lol": {}, "haha": {}, "jaja": {}, "yeah": {}, "yep": {}, "nope": {},
	"hey": {}, "gonna": {}, "wanna": {}, "btw": {}, "omg": {}, "jeje": {},
}

var keywordLexicons = map[string]map[string]struct{}{
	"achievement": {
		"goal": {}, "target": {}, "win": {}, "achieved": {}, "delivered": {},
		"shipped": {}, "done": {}, "completed": {}, "success": {}, "meta": {},
		"logro": {}, "entregado": {}, "completado": {},
	},
	"social": {
		"team": {}, "together": {}, "we": {}, "us": {}, "lunch": {},
		"coffee": {}, "meet": {}, "chat": {}, "everyone": {}, "equipo": {},
		"juntos": {}, "nosotros": {},
	},
	"cognitive": {
		"think": {}, "because": {}, "therefore": {}, "analyze": {},
		"consider": {}, "understand": {}, "why": {}, "how": {}, "idea": {},
		"pienso": {}, "porque": {}, "analizar": {}, "entender": {},
	},
	"planning": {
		"plan": {}, "schedule": {}, "deadline": {}, "tomorrow": {},
		"next": {}, "roadmap": {}, "milestone": {}, "agenda": {}, "before": {},
		"mañana": {}, "proximo": {}, "cronograma": {},
	},
	"positive_emotion": {
		"excited": {}, "glad": {}, "proud": {}, "enjoy": {}, "fun": {},
		"contento": {}, "orgulloso": {}, "feliz": {},
	},
	"negative_emotion": {
		"stressed": {}, "tired": {}, "annoyed": {}, "upset": {}, "sad": {},
		"estresado": {}, "cansado": {}, "triste": {}, "enojado": {},
	},
}
