package music

// Fusion tracks; gaps in the table are unused entries.
var Fusion = Library{
	"Sector1": 0x04,

	"Sector2":        0x06,
	"Sector3":        0x07,
	"Sector5":        0x08,
	"Sector4":        0x09,
	"Sector6":        0x0A,
	"NavigationRoom": 0x0B,

	"ItemFanfare": 0x10,

	"SAXChase":       0x17,
	"BossTension":    0x18,
	"ArachnusBattle": 0x19,
	"ZazabiBattle":   0x1A,
	"BoxBattle":      0x1B,

	"OperationsDeckElevatorOffline":         0x33,
	"OperationsDeckElevatorOfflineAmbience": 0x34,
	"MainBoilerCooldownMission":             0x35,

	"OrbitChange": 0x38,

	"ObjectiveComplete": 0x3B,

	"SerrisYakuzaBattle":     0x3F,
	"VariaCoreXBattle":       0x40,
	"NightmareBattle":        0x41,
	"NeoRidleyBattle":        0x42,
	"ChozoStatueCoreXBattle": 0x43,
	"NettoriBattle":          0x44,

	"Title": 0x4A,

	"SAXBattle": 0x51,
}

// Zero Mission tracks.
var ZeroMission = Library{
	"Brinstar":                        0x01,
	"TitleScreen":                     0x02,
	"SaveElevatorRoom":                0x03,
	"Intro":                           0x04,
	"ChozoStatueHint":                 0x05,
	"Norfair":                         0x06,
	"Kraid":                           0x07,
	"Escape":                          0x08,
	"FileSelect":                      0x09,
	"StatueRoom":                      0x0A,
	"BossKilled":                      0x0B,
	"MapRoom":                         0x0C,
	"ChozoRuinsDepth":                 0x0D,
	"ChozoRuins":                      0x0E,
	"ChozoRuinsLight":                 0x0F,
	"RidleyInSpace":                   0x10,
	"RidleyLanding":                   0x11,
	"ChozoStatueHintDelay":            0x12,
	"GettingFullyPoweredSuitCutscene": 0x13,
	"EscapingZebesCutscene":           0x14,
	"ChozoVoice1":                     0x15,
	"ChozoVoice2":                     0x16,
	"BeforeRuinsTestUnused":           0x17,
	"ElevatorRoom":                    0x18,
	"BrinstarRemix":                   0x19,
	"EscapeSuccessful":                0x1A,
	"Credits":                         0x1B,
	"StatueRoomOpened":                0x1C,

	"Ridley": 0x32,

	"KraidBattleWithIntro": 0x34,
	"RidleyBattle":         0x35,
	"LoadingJingle":        0x36,
	"GettingItemJingle":    0x37,

	"IntroMotherBrain":         0x39,
	"GettingTankJingle":        0x3A,
	"Tourian":                  0x3B,
	"WormsBattle":              0x3C,
	"MotherBrainBattle":        0x3D,
	"CatterpillarsBattle":      0x3E,
	"ImagoCocoonBattle":        0x3F,
	"ImagoBattle":              0x40,
	"MechaRidleyBattle":        0x41,
	"GettingUnknownItemJingle": 0x42,
	"RuinsTestBattleWithIntro": 0x43,
	"EnteringTourianCutscene":  0x44,
	"AlarmActivated":           0x45,
	"Stealth":                  0x46,

	"EnteringNorfairCutscene":       0x48,
	"ChozodiaDetected":              0x49,
	"GettingFullyPoweredSuitJingle": 0x4A,
	"KraidBattle":                   0x4B,
	"RidleyBattle2":                 0x4C,
	"MechaRidleyBattle2":            0x4D,
	"RuinsTestBattle":               0x4E,
	"CatterpillarsBattle2":          0x4F,
	"Crateria":                      0x50,

	"GameOver": 0x53,

	"ChozodiaSurface":     0x5A,
	"MapRoom2":            0x5B,
	"SaveElevatorRoom2":   0x5C,
	"BeforeRuinsTestRoom": 0x5D,
	"Stealth2":            0x5E,
}
